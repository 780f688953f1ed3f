package audit

import "time"

// Action identifies the registry change recorded by an entry.
type Action string

const (
	ActionDomainRegistered         Action = "domain_registered"
	ActionDomainDeprecated         Action = "domain_deprecated"
	ActionDomainUndeprecated       Action = "domain_undeprecated"
	ActionActivityTypeRegistered   Action = "activity_type_registered"
	ActionActivityTypeDeprecated   Action = "activity_type_deprecated"
	ActionActivityTypeUndeprecated Action = "activity_type_undeprecated"
	ActionWorkflowTypeRegistered   Action = "workflow_type_registered"
	ActionWorkflowTypeDeprecated   Action = "workflow_type_deprecated"
	ActionWorkflowTypeUndeprecated Action = "workflow_type_undeprecated"
)

// Entry is one change in the registry audit log.
type Entry struct {
	ID        string    `json:"id"`
	Region    string    `json:"region"`
	Domain    string    `json:"domain"`
	Action    Action    `json:"action"`
	Subject   string    `json:"subject,omitempty"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
