package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpggio/loom/internal/domain/registration"
)

type regionKey struct{}

// RegionFromContext returns the region from context, if present.
func RegionFromContext(ctx context.Context) (string, bool) {
	region, ok := ctx.Value(regionKey{}).(string)
	return region, ok
}

// WithRegion returns a context carrying region.
func WithRegion(ctx context.Context, region string) context.Context {
	return context.WithValue(ctx, regionKey{}, region)
}

// RegionMiddleware scopes each request to the region named in its SigV4
// credential scope, falling back to defaultRegion. Signatures are not verified.
// A malformed region is rejected with a ValidationException.
func RegionMiddleware(defaultRegion string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			region := RegionFromAuthorization(r.Header.Get("Authorization"))
			if region == "" {
				region = defaultRegion
			}
			if err := registration.ValidateRegion(region); err != nil {
				WriteFault(w, validationFault(err.Error()))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRegion(r.Context(), region)))
		})
	}
}

// RegionFromAuthorization extracts the region from a header of the form
// "AWS4-HMAC-SHA256 Credential=AKID/20240101/us-east-1/swf/aws4_request, ...".
func RegionFromAuthorization(header string) string {
	_, rest, ok := strings.Cut(header, "Credential=")
	if !ok {
		return ""
	}
	if end := strings.IndexAny(rest, ", "); end >= 0 {
		rest = rest[:end]
	}
	// access key / date / region / service / aws4_request
	parts := strings.Split(rest, "/")
	if len(parts) < 5 {
		return ""
	}
	return parts[len(parts)-3]
}
