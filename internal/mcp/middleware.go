package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/transport"
)

type contextKey int

const regionKey contextKey = iota

// getRegion extracts the region from context.
func getRegion(ctx context.Context) string {
	v, _ := ctx.Value(regionKey).(string)
	return v
}

// regionMiddleware scopes each request to a region. Over HTTP the SigV4
// credential scope in the Authorization header wins; stdio sessions always use
// defaultRegion.
func regionMiddleware(defaultRegion string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			region := defaultRegion
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				if r := transport.RegionFromAuthorization(extra.Header.Get("Authorization")); r != "" {
					region = r
				} else if r := extra.Header.Get(RegionHeader); r != "" {
					region = r
				}
			}
			if err := registration.ValidateRegion(region); err != nil {
				return nil, MapError(err)
			}
			ctx = context.WithValue(ctx, regionKey, region)
			return next(ctx, method, req)
		}
	}
}

// RegionHeader selects the region for MCP clients that don't sign requests.
const RegionHeader = "X-Loom-Region"
