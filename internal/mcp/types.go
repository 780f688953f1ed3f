package mcp

import (
	"time"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/audit"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

type RegisterDomainParams struct {
	Name                  string `json:"name" jsonschema:"domain name, unique within the region"`
	Description           string `json:"description,omitempty"`
	RetentionPeriodInDays string `json:"retention_period_in_days" jsonschema:"execution history retention in days from 0 to 90, or NONE"`
}

type DomainParams struct {
	Name string `json:"name"`
}

type ListDomainsParams struct {
	Status        string `json:"status,omitempty" jsonschema:"REGISTERED or DEPRECATED, defaults to REGISTERED"`
	ReverseOrder  bool   `json:"reverse_order,omitempty"`
	PageSize      int    `json:"page_size,omitempty"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

type TypeParams struct {
	Domain  string `json:"domain"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ListTypesParams struct {
	Domain        string `json:"domain"`
	Name          string `json:"name,omitempty" jsonschema:"only return types with this exact name"`
	Status        string `json:"status,omitempty" jsonschema:"REGISTERED or DEPRECATED, defaults to REGISTERED"`
	ReverseOrder  bool   `json:"reverse_order,omitempty"`
	PageSize      int    `json:"page_size,omitempty"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

type RegisterActivityTypeParams struct {
	Domain                            string `json:"domain"`
	Name                              string `json:"name"`
	Version                           string `json:"version"`
	Description                       string `json:"description,omitempty"`
	DefaultTaskList                   string `json:"default_task_list,omitempty"`
	DefaultTaskHeartbeatTimeout       string `json:"default_task_heartbeat_timeout,omitempty" jsonschema:"seconds, or NONE"`
	DefaultTaskScheduleToCloseTimeout string `json:"default_task_schedule_to_close_timeout,omitempty" jsonschema:"seconds, or NONE"`
	DefaultTaskScheduleToStartTimeout string `json:"default_task_schedule_to_start_timeout,omitempty" jsonschema:"seconds, or NONE"`
	DefaultTaskStartToCloseTimeout    string `json:"default_task_start_to_close_timeout,omitempty" jsonschema:"seconds, or NONE"`
	DefaultTaskPriority               string `json:"default_task_priority,omitempty"`
}

type RegisterWorkflowTypeParams struct {
	Domain                              string `json:"domain"`
	Name                                string `json:"name"`
	Version                             string `json:"version"`
	Description                         string `json:"description,omitempty"`
	DefaultTaskList                     string `json:"default_task_list,omitempty"`
	DefaultTaskStartToCloseTimeout      string `json:"default_task_start_to_close_timeout,omitempty" jsonschema:"seconds, or NONE"`
	DefaultExecutionStartToCloseTimeout string `json:"default_execution_start_to_close_timeout,omitempty" jsonschema:"seconds, or NONE"`
	DefaultChildPolicy                  string `json:"default_child_policy,omitempty" jsonschema:"TERMINATE, REQUEST_CANCEL or ABANDON"`
	DefaultLambdaRole                   string `json:"default_lambda_role,omitempty"`
	DefaultTaskPriority                 string `json:"default_task_priority,omitempty"`
}

type RecentActivityParams struct {
	Domain string `json:"domain,omitempty"`
	Action string `json:"action,omitempty" jsonschema:"filter by action, for example activity_type_registered"`
	Limit  int    `json:"limit,omitempty"`
}

// Responses carry dates as RFC 3339 strings.

type DomainResponse struct {
	Name                  string `json:"name"`
	Description           string `json:"description,omitempty"`
	Status                string `json:"status"`
	RetentionPeriodInDays string `json:"retention_period_in_days"`
	Region                string `json:"region"`
	CreatedAt             string `json:"created_at"`
	DeprecatedAt          string `json:"deprecated_at,omitempty"`
}

type DomainListResponse struct {
	Domains       []DomainResponse `json:"domains"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

type ActivityTypeResponse struct {
	Domain        string                     `json:"domain"`
	Name          string                     `json:"name"`
	Version       string                     `json:"version"`
	Description   string                     `json:"description,omitempty"`
	Status        string                     `json:"status"`
	Configuration activitytype.Configuration `json:"configuration"`
	CreatedAt     string                     `json:"created_at"`
	DeprecatedAt  string                     `json:"deprecated_at,omitempty"`
}

type ActivityTypeListResponse struct {
	Types         []ActivityTypeResponse `json:"types"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
}

type WorkflowTypeResponse struct {
	Domain        string                     `json:"domain"`
	Name          string                     `json:"name"`
	Version       string                     `json:"version"`
	Description   string                     `json:"description,omitempty"`
	Status        string                     `json:"status"`
	Configuration workflowtype.Configuration `json:"configuration"`
	CreatedAt     string                     `json:"created_at"`
	DeprecatedAt  string                     `json:"deprecated_at,omitempty"`
}

type WorkflowTypeListResponse struct {
	Types         []WorkflowTypeResponse `json:"types"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
}

// StatusResponse reports the status of a resource after a lifecycle change.
type StatusResponse struct {
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

type ActivityEntryResponse struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	Action    string `json:"action"`
	Subject   string `json:"subject,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type RecentActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func toDomainResponse(d swfdomain.Domain) DomainResponse {
	return DomainResponse{
		Name:                  d.Name,
		Description:           d.Description,
		Status:                d.Status.String(),
		RetentionPeriodInDays: d.RetentionPeriodInDays,
		Region:                d.Region,
		CreatedAt:             formatTime(d.CreatedAt),
		DeprecatedAt:          formatOptionalTime(d.DeprecatedAt),
	}
}

func toActivityTypeResponse(t activitytype.ActivityType) ActivityTypeResponse {
	return ActivityTypeResponse{
		Domain:        t.Domain,
		Name:          t.Name,
		Version:       t.Version,
		Description:   t.Description,
		Status:        t.Status.String(),
		Configuration: t.Configuration,
		CreatedAt:     formatTime(t.CreatedAt),
		DeprecatedAt:  formatOptionalTime(t.DeprecatedAt),
	}
}

func toWorkflowTypeResponse(t workflowtype.WorkflowType) WorkflowTypeResponse {
	return WorkflowTypeResponse{
		Domain:        t.Domain,
		Name:          t.Name,
		Version:       t.Version,
		Description:   t.Description,
		Status:        t.Status.String(),
		Configuration: t.Configuration,
		CreatedAt:     formatTime(t.CreatedAt),
		DeprecatedAt:  formatOptionalTime(t.DeprecatedAt),
	}
}

func toActivityEntryResponse(e audit.Entry) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:        e.ID,
		Domain:    e.Domain,
		Action:    string(e.Action),
		Subject:   e.Subject,
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: formatTime(e.CreatedAt),
	}
}
