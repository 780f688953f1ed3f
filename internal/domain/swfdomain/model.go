package swfdomain

import (
	"time"

	"github.com/rpggio/loom/internal/domain/registration"
)

// Domain is a namespace for activity types, workflow types and executions.
type Domain struct {
	Region                string              `json:"region"`
	Name                  string              `json:"name"`
	Description           string              `json:"description,omitempty"`
	RetentionPeriodInDays string              `json:"workflowExecutionRetentionPeriodInDays"`
	Status                registration.Status `json:"status"`
	CreatedAt             time.Time           `json:"created_at"`
	DeprecatedAt          *time.Time          `json:"deprecated_at,omitempty"`
}
