// Package testserver runs the full loom stack on in-memory sqlite for tests.
package testserver

import (
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go/service/swf"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/loom/internal/app"
	"github.com/rpggio/loom/internal/metrics"
	"github.com/rpggio/loom/internal/sqlite"
	"github.com/rpggio/loom/internal/swfclient"
	"github.com/rpggio/loom/internal/transport"
)

// Server is a running loom instance.
type Server struct {
	URL      string
	Services app.Services
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

type options struct {
	clock clockwork.Clock
}

// Option customizes a test server.
type Option func(*options)

// WithClock makes the services use clock.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// New starts a server and stops it when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svcs := app.NewServices(app.SQLiteRepositories(db), app.Deps{Metrics: m, Clock: o.clock})

	router, err := transport.NewServer(svcs.Transport(), transport.Options{
		DefaultRegion: swfclient.DefaultRegion,
		Metrics:       m,
		Gatherer:      reg,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &Server{URL: srv.URL, Services: svcs, Registry: reg, Metrics: m}
}

// Client returns an SWF client for the default region.
func (s *Server) Client(t testing.TB) *swf.SWF {
	return s.ClientForRegion(t, swfclient.DefaultRegion)
}

// ClientForRegion returns an SWF client signing requests for region.
func (s *Server) ClientForRegion(t testing.TB, region string) *swf.SWF {
	t.Helper()
	client, err := swfclient.New(swfclient.Config{Endpoint: s.URL, Region: region})
	require.NoError(t, err)
	return client
}
