// Package seed loads a YAML fixture of domains and types into a running
// registry.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Region  string   `yaml:"region"`
	Domains []Domain `yaml:"domains"`
}

type Domain struct {
	Name                  string         `yaml:"name"`
	Description           string         `yaml:"description"`
	RetentionPeriodInDays string         `yaml:"retention_period_in_days"`
	Deprecated            bool           `yaml:"deprecated"`
	ActivityTypes         []ActivityType `yaml:"activity_types"`
	WorkflowTypes         []WorkflowType `yaml:"workflow_types"`
}

type ActivityType struct {
	Name                              string `yaml:"name"`
	Version                           string `yaml:"version"`
	Description                       string `yaml:"description"`
	Deprecated                        bool   `yaml:"deprecated"`
	DefaultTaskList                   string `yaml:"default_task_list"`
	DefaultTaskHeartbeatTimeout       string `yaml:"default_task_heartbeat_timeout"`
	DefaultTaskScheduleToCloseTimeout string `yaml:"default_task_schedule_to_close_timeout"`
	DefaultTaskScheduleToStartTimeout string `yaml:"default_task_schedule_to_start_timeout"`
	DefaultTaskStartToCloseTimeout    string `yaml:"default_task_start_to_close_timeout"`
	DefaultTaskPriority               string `yaml:"default_task_priority"`
}

type WorkflowType struct {
	Name                                string `yaml:"name"`
	Version                             string `yaml:"version"`
	Description                         string `yaml:"description"`
	Deprecated                          bool   `yaml:"deprecated"`
	DefaultTaskList                     string `yaml:"default_task_list"`
	DefaultTaskStartToCloseTimeout      string `yaml:"default_task_start_to_close_timeout"`
	DefaultExecutionStartToCloseTimeout string `yaml:"default_execution_start_to_close_timeout"`
	DefaultChildPolicy                  string `yaml:"default_child_policy"`
	DefaultLambdaRole                   string `yaml:"default_lambda_role"`
	DefaultTaskPriority                 string `yaml:"default_task_priority"`
}

// DomainService is the subset of the domain service used for seeding.
type DomainService interface {
	Register(ctx context.Context, region string, req swfdomain.RegisterRequest) (*swfdomain.Domain, error)
	Deprecate(ctx context.Context, region, name string) error
}

type ActivityTypeService interface {
	Register(ctx context.Context, region string, req activitytype.RegisterRequest) (*activitytype.ActivityType, error)
	Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
}

type WorkflowTypeService interface {
	Register(ctx context.Context, region string, req workflowtype.RegisterRequest) (*workflowtype.WorkflowType, error)
	Deprecate(ctx context.Context, region, domain string, ref registration.TypeRef) error
}

// Loader applies fixtures through the services so that validation, audit
// and metrics see seeded entries like any other registration.
type Loader struct {
	Domains       DomainService
	ActivityTypes ActivityTypeService
	WorkflowTypes WorkflowTypeService
	DefaultRegion string
	Logger        *zap.Logger
}

// Result counts what a load did.
type Result struct {
	Created int
	Skipped int
}

// Parse decodes a fixture.
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &f, nil
}

// LoadFile parses path and applies it.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open seed: %w", err)
	}
	defer file.Close()

	f, err := Parse(file)
	if err != nil {
		return Result{}, err
	}
	return l.Apply(ctx, f)
}

// Apply registers everything in f. Entries that already exist are skipped,
// which makes repeated loads of the same fixture a no-op.
func (l *Loader) Apply(ctx context.Context, f *Fixture) (Result, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	region := f.Region
	if region == "" {
		region = l.DefaultRegion
	}
	if err := registration.ValidateRegion(region); err != nil {
		return Result{}, fmt.Errorf("seed fixture: %w", err)
	}

	var res Result
	for _, d := range f.Domains {
		retention := d.RetentionPeriodInDays
		if retention == "" {
			retention = "NONE"
		}
		_, err := l.Domains.Register(ctx, region, swfdomain.RegisterRequest{
			Name:                  d.Name,
			Description:           d.Description,
			RetentionPeriodInDays: retention,
		})
		switch {
		case errors.Is(err, swfdomain.ErrDomainAlreadyExists):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed domain %s: %w", d.Name, err)
		default:
			res.Created++
			if d.Deprecated {
				if err := l.Domains.Deprecate(ctx, region, d.Name); err != nil {
					return res, fmt.Errorf("seed domain %s: %w", d.Name, err)
				}
			}
		}

		for _, at := range d.ActivityTypes {
			created, err := l.applyActivityType(ctx, region, d.Name, at)
			if err != nil {
				return res, err
			}
			res.count(created)
		}
		for _, wt := range d.WorkflowTypes {
			created, err := l.applyWorkflowType(ctx, region, d.Name, wt)
			if err != nil {
				return res, err
			}
			res.count(created)
		}
	}

	logger.Info("seed applied",
		zap.String("region", region),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (l *Loader) applyActivityType(ctx context.Context, region, domain string, at ActivityType) (bool, error) {
	_, err := l.ActivityTypes.Register(ctx, region, activitytype.RegisterRequest{
		Domain:      domain,
		Name:        at.Name,
		Version:     at.Version,
		Description: at.Description,
		Configuration: activitytype.Configuration{
			DefaultTaskList:                   at.DefaultTaskList,
			DefaultTaskHeartbeatTimeout:       at.DefaultTaskHeartbeatTimeout,
			DefaultTaskScheduleToCloseTimeout: at.DefaultTaskScheduleToCloseTimeout,
			DefaultTaskScheduleToStartTimeout: at.DefaultTaskScheduleToStartTimeout,
			DefaultTaskStartToCloseTimeout:    at.DefaultTaskStartToCloseTimeout,
			DefaultTaskPriority:               at.DefaultTaskPriority,
		},
	})
	if errors.Is(err, activitytype.ErrTypeAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed activity type %s/%s@%s: %w", domain, at.Name, at.Version, err)
	}
	if at.Deprecated {
		ref := registration.TypeRef{Name: at.Name, Version: at.Version}
		if err := l.ActivityTypes.Deprecate(ctx, region, domain, ref); err != nil {
			return false, fmt.Errorf("seed activity type %s/%s@%s: %w", domain, at.Name, at.Version, err)
		}
	}
	return true, nil
}

func (l *Loader) applyWorkflowType(ctx context.Context, region, domain string, wt WorkflowType) (bool, error) {
	_, err := l.WorkflowTypes.Register(ctx, region, workflowtype.RegisterRequest{
		Domain:      domain,
		Name:        wt.Name,
		Version:     wt.Version,
		Description: wt.Description,
		Configuration: workflowtype.Configuration{
			DefaultTaskList:                     wt.DefaultTaskList,
			DefaultTaskStartToCloseTimeout:      wt.DefaultTaskStartToCloseTimeout,
			DefaultExecutionStartToCloseTimeout: wt.DefaultExecutionStartToCloseTimeout,
			DefaultChildPolicy:                  workflowtype.ChildPolicy(wt.DefaultChildPolicy),
			DefaultLambdaRole:                   wt.DefaultLambdaRole,
			DefaultTaskPriority:                 wt.DefaultTaskPriority,
		},
	})
	if errors.Is(err, workflowtype.ErrTypeAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed workflow type %s/%s@%s: %w", domain, wt.Name, wt.Version, err)
	}
	if wt.Deprecated {
		ref := registration.TypeRef{Name: wt.Name, Version: wt.Version}
		if err := l.WorkflowTypes.Deprecate(ctx, region, domain, ref); err != nil {
			return false, fmt.Errorf("seed workflow type %s/%s@%s: %w", domain, wt.Name, wt.Version, err)
		}
	}
	return true, nil
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}
