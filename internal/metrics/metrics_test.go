package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("RegisterDomain", "ok", 10*time.Millisecond)
	m.ObserveRequest("RegisterDomain", "ok", 5*time.Millisecond)
	m.ObserveRequest("RegisterDomain", "DomainAlreadyExistsFault", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("RegisterDomain", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("RegisterDomain", "DomainAlreadyExistsFault")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestRegisteredTypesGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TypeRegistered("activity")
	m.TypeRegistered("activity")
	m.TypeDeprecated("activity")
	m.TypeRegistered("workflow")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegisteredTypes.WithLabelValues("activity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegisteredTypes.WithLabelValues("workflow")))

	m.TypeUndeprecated("activity")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegisteredTypes.WithLabelValues("activity")))
}
