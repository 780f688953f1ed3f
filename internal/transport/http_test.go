package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/metrics"
	"github.com/rpggio/loom/internal/sqlite"
)

type testEnv struct {
	server  *httptest.Server
	spans   *tracetest.SpanRecorder
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	auditSvc := audit.NewService(sqlite.NewAuditRepository(db), nil, nil, nil)
	domains := swfdomain.NewService(sqlite.NewDomainRepository(db), auditSvc, nil, nil)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	router, err := NewServer(Services{
		Domains:       domains,
		ActivityTypes: activitytype.NewService(sqlite.NewActivityTypeRepository(db), domains, nil, activitytype.WithAudit(auditSvc), activitytype.WithCounter(m)),
		WorkflowTypes: workflowtype.NewService(sqlite.NewWorkflowTypeRepository(db), domains, nil, workflowtype.WithAudit(auditSvc), workflowtype.WithCounter(m)),
		Audit:         auditSvc,
	}, Options{
		DefaultRegion:  "us-east-1",
		Metrics:        m,
		Gatherer:       reg,
		TracerProvider: tp,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, spans: spans, metrics: m}
}

func (e *testEnv) call(t *testing.T, action, body string, headers ...string) (int, map[string]any, http.Header) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("X-Amz-Target", TargetPrefix+action)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return resp.StatusCode, out, resp.Header
}

func (e *testEnv) mustCall(t *testing.T, action, body string) map[string]any {
	t.Helper()
	status, out, _ := e.call(t, action, body)
	require.Equal(t, http.StatusOK, status, out)
	return out
}

func faultType(out map[string]any) string {
	s, _ := out["__type"].(string)
	return s
}

func TestHTTPServer_Health(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_ActivityTypeRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	env.mustCall(t, "RegisterDomain", `{"name":"test-domain","workflowExecutionRetentionPeriodInDays":"60"}`)
	env.mustCall(t, "RegisterActivityType", `{
		"domain":"test-domain","name":"test-activity","version":"v1.0",
		"defaultTaskList":{"name":"foo"},"defaultTaskHeartbeatTimeout":"32"}`)

	list := env.mustCall(t, "ListActivityTypes", `{"domain":"test-domain","registrationStatus":"REGISTERED"}`)
	infos := list["typeInfos"].([]any)
	require.Len(t, infos, 1)
	info := infos[0].(map[string]any)
	require.Equal(t, "test-activity", info["activityType"].(map[string]any)["name"])
	require.Equal(t, "v1.0", info["activityType"].(map[string]any)["version"])
	require.Equal(t, "REGISTERED", info["status"])
	require.IsType(t, float64(0), info["creationDate"])

	described := env.mustCall(t, "DescribeActivityType", `{"domain":"test-domain","activityType":{"name":"test-activity","version":"v1.0"}}`)
	cfg := described["configuration"].(map[string]any)
	require.Equal(t, "foo", cfg["defaultTaskList"].(map[string]any)["name"])
	require.Equal(t, "32", cfg["defaultTaskHeartbeatTimeout"])
	require.Equal(t, "REGISTERED", described["typeInfo"].(map[string]any)["status"])
}

func TestHTTPServer_Faults(t *testing.T) {
	env := newTestEnv(t)
	env.mustCall(t, "RegisterDomain", `{"name":"test-domain","workflowExecutionRetentionPeriodInDays":"60"}`)
	env.mustCall(t, "RegisterActivityType", `{"domain":"test-domain","name":"test-activity","version":"v1.0"}`)

	tests := []struct {
		name   string
		action string
		body   string
		want   string
	}{
		{"duplicate type", "RegisterActivityType", `{"domain":"test-domain","name":"test-activity","version":"v1.0"}`,
			"com.amazonaws.swf.base.model#TypeAlreadyExistsFault"},
		{"numeric version", "RegisterActivityType", `{"domain":"test-domain","name":"test-activity","version":12}`,
			"com.amazonaws.swf.base.model#SerializationException"},
		{"malformed json", "RegisterDomain", `{"name":`,
			"com.amazonaws.swf.base.model#SerializationException"},
		{"missing member", "RegisterActivityType", `{"domain":"test-domain","name":"test-activity"}`,
			"com.amazon.coral.validate#ValidationException"},
		{"bad status", "ListActivityTypes", `{"domain":"test-domain","registrationStatus":"ACTIVE"}`,
			"com.amazon.coral.validate#ValidationException"},
		{"unknown type", "DescribeActivityType", `{"domain":"test-domain","activityType":{"name":"nope","version":"v1.0"}}`,
			"com.amazonaws.swf.base.model#UnknownResourceFault"},
		{"unknown domain", "DescribeDomain", `{"name":"missing"}`,
			"com.amazonaws.swf.base.model#UnknownResourceFault"},
		{"duplicate domain", "RegisterDomain", `{"name":"test-domain","workflowExecutionRetentionPeriodInDays":"60"}`,
			"com.amazonaws.swf.base.model#DomainAlreadyExistsFault"},
		{"unknown action", "StartWorkflowExecution", `{}`,
			"com.amazon.coral.service#UnknownOperationException"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out, _ := env.call(t, tt.action, tt.body)
			require.Equal(t, http.StatusBadRequest, status)
			require.Equal(t, tt.want, faultType(out))
			require.NotEmpty(t, out["message"])
		})
	}
}

func TestHTTPServer_DeprecateTwice(t *testing.T) {
	env := newTestEnv(t)
	env.mustCall(t, "RegisterDomain", `{"name":"test-domain","workflowExecutionRetentionPeriodInDays":"60"}`)
	env.mustCall(t, "RegisterActivityType", `{"domain":"test-domain","name":"test-activity","version":"v1.0"}`)

	ref := `{"domain":"test-domain","activityType":{"name":"test-activity","version":"v1.0"}}`
	env.mustCall(t, "DeprecateActivityType", ref)

	status, out, _ := env.call(t, "DeprecateActivityType", ref)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "com.amazonaws.swf.base.model#TypeDeprecatedFault", faultType(out))

	list := env.mustCall(t, "ListActivityTypes", `{"domain":"test-domain","registrationStatus":"DEPRECATED"}`)
	require.Len(t, list["typeInfos"].([]any), 1)
}

func TestHTTPServer_RegionIsolation(t *testing.T) {
	env := newTestEnv(t)

	status, out, headers := env.call(t, "RegisterDomain",
		`{"name":"west-domain","workflowExecutionRetentionPeriodInDays":"1"}`,
		"Authorization", "AWS4-HMAC-SHA256 Credential=the_key/20240101/us-west-2/swf/aws4_request, SignedHeaders=host, Signature=abc")
	require.Equal(t, http.StatusOK, status, out)
	require.NotEmpty(t, headers.Get(RequestIDHeader))

	status, out, _ = env.call(t, "DescribeDomain", `{"name":"west-domain"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "com.amazonaws.swf.base.model#UnknownResourceFault", faultType(out))

	_, out, _ = env.call(t, "DescribeDomain", `{"name":"west-domain"}`,
		"Authorization", "AWS4-HMAC-SHA256 Credential=the_key/20240101/us-west-2/swf/aws4_request")
	info := out["domainInfo"].(map[string]any)
	require.Equal(t, "arn:aws:swf:us-west-2:123456789012:/domain/west-domain", info["arn"])
}

func TestHTTPServer_TracingAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.mustCall(t, "RegisterDomain", `{"name":"test-domain","workflowExecutionRetentionPeriodInDays":"60"}`)
	env.call(t, "DescribeDomain", `{"name":"missing"}`)

	spans := env.spans.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "swf.RegisterDomain", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, "swf.DescribeDomain", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)
	require.Equal(t, FaultUnknownResource, spans[1].Status().Description)

	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Requests.WithLabelValues("RegisterDomain", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Requests.WithLabelValues("DescribeDomain", FaultUnknownResource)))

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "loom_requests_total")
}

func TestHTTPServer_AdminAudit(t *testing.T) {
	env := newTestEnv(t)
	env.mustCall(t, "RegisterDomain", `{"name":"test-domain","workflowExecutionRetentionPeriodInDays":"60"}`)
	env.mustCall(t, "RegisterActivityType", `{"domain":"test-domain","name":"test-activity","version":"v1.0"}`)

	resp, err := http.Get(env.server.URL + "/admin/audit?domain=test-domain&limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Entries []audit.Entry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Entries, 2)
	require.Equal(t, audit.ActionActivityTypeRegistered, out.Entries[0].Action)
	require.Equal(t, "us-east-1", out.Entries[0].Region)

	resp, err = http.Get(env.server.URL + "/admin/audit?limit=x")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
