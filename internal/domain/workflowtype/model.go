package workflowtype

import (
	"fmt"
	"time"

	"github.com/rpggio/loom/internal/domain/registration"
)

// ChildPolicy decides what happens to child executions when the parent closes.
type ChildPolicy string

const (
	ChildPolicyTerminate     ChildPolicy = "TERMINATE"
	ChildPolicyRequestCancel ChildPolicy = "REQUEST_CANCEL"
	ChildPolicyAbandon       ChildPolicy = "ABANDON"
)

// Configuration holds the defaults applied to executions of a workflow type.
type Configuration struct {
	DefaultTaskList                     string      `json:"defaultTaskList,omitempty"`
	DefaultTaskStartToCloseTimeout      string      `json:"defaultTaskStartToCloseTimeout,omitempty"`
	DefaultExecutionStartToCloseTimeout string      `json:"defaultExecutionStartToCloseTimeout,omitempty"`
	DefaultChildPolicy                  ChildPolicy `json:"defaultChildPolicy,omitempty"`
	DefaultLambdaRole                   string      `json:"defaultLambdaRole,omitempty"`
	DefaultTaskPriority                 string      `json:"defaultTaskPriority,omitempty"`
}

// WorkflowType is a named, versioned workflow registered in a domain.
type WorkflowType struct {
	Region        string              `json:"region"`
	Domain        string              `json:"domain"`
	Name          string              `json:"name"`
	Version       string              `json:"version"`
	Description   string              `json:"description,omitempty"`
	Status        registration.Status `json:"status"`
	Configuration Configuration       `json:"configuration"`
	CreatedAt     time.Time           `json:"created_at"`
	DeprecatedAt  *time.Time          `json:"deprecated_at,omitempty"`
}

// Ref returns the (name, version) pair identifying the type.
func (w WorkflowType) Ref() registration.TypeRef {
	return registration.TypeRef{Name: w.Name, Version: w.Version}
}

func describe(ref registration.TypeRef) string {
	return fmt.Sprintf("WorkflowType=[name=%s, version=%s]", ref.Name, ref.Version)
}
