package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
	"github.com/rpggio/loom/internal/metrics"
)

const maxBodyBytes = 1 << 20

// DomainService manages domains.
type DomainService interface {
	Register(ctx context.Context, region string, req swfdomain.RegisterRequest) (*swfdomain.Domain, error)
	Describe(ctx context.Context, region, name string) (*swfdomain.Domain, error)
	List(ctx context.Context, region string, req swfdomain.ListRequest) (*swfdomain.ListResult, error)
	Deprecate(ctx context.Context, region, name string) error
	Undeprecate(ctx context.Context, region, name string) error
}

// ActivityTypeService manages activity types.
type ActivityTypeService interface {
	Register(ctx context.Context, region string, req activitytype.RegisterRequest) (*activitytype.ActivityType, error)
	Describe(ctx context.Context, region, domain string, ref registration.TypeRef) (*activitytype.ActivityType, error)
	List(ctx context.Context, region string, req activitytype.ListRequest) (*activitytype.ListResult, error)
	Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
	Undeprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
}

// WorkflowTypeService manages workflow types.
type WorkflowTypeService interface {
	Register(ctx context.Context, region string, req workflowtype.RegisterRequest) (*workflowtype.WorkflowType, error)
	Describe(ctx context.Context, region, domain string, ref registration.TypeRef) (*workflowtype.WorkflowType, error)
	List(ctx context.Context, region string, req workflowtype.ListRequest) (*workflowtype.ListResult, error)
	Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
	Undeprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
}

// AuditService reads the audit log.
type AuditService interface {
	Recent(ctx context.Context, region string, opts audit.ListOptions) ([]audit.Entry, error)
}

// Services groups the handlers' dependencies.
type Services struct {
	Domains       DomainService
	ActivityTypes ActivityTypeService
	WorkflowTypes WorkflowTypeService
	Audit         AuditService
}

// Options configures optional server behavior.
type Options struct {
	DefaultRegion  string
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	TracerProvider trace.TracerProvider
	// Mount registers extra routes, such as the MCP endpoint.
	Mount func(chi.Router)
}

// Server wires HTTP handlers.
type Server struct {
	services  Services
	actions   map[string]actionFunc
	validator *requestValidator
	logger    *zap.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// NewServer creates an HTTP server router with middleware.
func NewServer(services Services, opts Options) (*chi.Mux, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = "us-east-1"
	}

	srv := &Server{
		services:  services,
		validator: validator,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		tracer:    opts.TracerProvider.Tracer("github.com/rpggio/loom/internal/transport"),
	}
	srv.actions = srv.actionTable()

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RegionMiddleware(opts.DefaultRegion))

	r.Post("/", srv.handleAction)
	r.Get("/health", srv.handleHealth)
	r.Get("/admin/audit", srv.handleAudit)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}
	if opts.Mount != nil {
		opts.Mount(r)
	}

	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	action, err := ParseTarget(r.Header.Get("X-Amz-Target"))
	if err != nil {
		WriteFault(w, unknownOperationFault(r.Header.Get("X-Amz-Target")))
		return
	}

	region, _ := RegionFromContext(r.Context())
	requestID, _ := RequestIDFromContext(r.Context())

	ctx, span := s.tracer.Start(r.Context(), "swf."+action, trace.WithAttributes(
		attribute.String("rpc.system", "aws-api"),
		attribute.String("rpc.service", "SimpleWorkflowService"),
		attribute.String("rpc.method", action),
		attribute.String("aws.region", region),
		attribute.String("aws.request_id", requestID),
	))
	defer span.End()

	result, err := s.dispatch(ctx, region, action, r.Body)
	outcome := faultResultOK
	if err != nil {
		fault := faultFor(err)
		outcome = fault.Name()
		span.RecordError(err)
		span.SetStatus(codes.Error, fault.Name())

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("region", region),
			zap.String("request_id", requestID),
			zap.String("fault", fault.Name()),
			zap.Error(err),
		}
		if fault.Status() >= http.StatusInternalServerError {
			s.logger.Error("action failed", fields...)
		} else {
			s.logger.Info("action rejected", fields...)
		}
		WriteFault(w, fault)
	} else {
		s.logger.Debug("action handled",
			zap.String("action", action),
			zap.String("region", region),
			zap.String("request_id", requestID))
		WriteResult(w, result)
	}

	if s.metrics != nil {
		s.metrics.ObserveRequest(action, outcome, time.Since(start))
	}
}

func (s *Server) dispatch(ctx context.Context, region, action string, body io.Reader) (any, error) {
	handle, ok := s.actions[action]
	if !ok || !s.validator.supports(action) {
		return nil, unknownOperationFault(action)
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return nil, serializationFault("failed to read request body")
	}
	if len(raw) > maxBodyBytes {
		return nil, validationFault("request body too large")
	}
	if fault := s.validator.validate(action, raw); fault != nil {
		return nil, fault
	}
	return handle(ctx, region, raw)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.services.Audit == nil {
		http.Error(w, "audit log not configured", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	region := q.Get("region")
	if region == "" {
		region, _ = RegionFromContext(r.Context())
	}
	if err := registration.ValidateRegion(region); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts := audit.ListOptions{Domain: q.Get("domain"), Limit: 50}
	if action := q.Get("action"); action != "" {
		a := audit.Action(action)
		opts.Action = &a
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		opts.Limit = n
	}

	entries, err := s.services.Audit.Recent(r.Context(), region, opts)
	if err != nil {
		s.logger.Error("audit listing failed", zap.String("region", region), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"entries": entries})
}

// decode unmarshals a validated body. Schema validation has already rejected
// type mismatches, so a failure here is a serialization problem.
func decode[T any](raw []byte) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return v, serializationFault(fmt.Sprintf("value at '%s' can not be converted to %s", typeErr.Field, typeErr.Type))
		}
		return v, serializationFault(err.Error())
	}
	return v, nil
}
