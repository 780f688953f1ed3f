package activitytype

import (
	"fmt"
	"time"

	"github.com/rpggio/loom/internal/domain/registration"
)

// Configuration holds the defaults applied to tasks of an activity type.
type Configuration struct {
	DefaultTaskList                   string `json:"defaultTaskList,omitempty"`
	DefaultTaskHeartbeatTimeout       string `json:"defaultTaskHeartbeatTimeout,omitempty"`
	DefaultTaskScheduleToCloseTimeout string `json:"defaultTaskScheduleToCloseTimeout,omitempty"`
	DefaultTaskScheduleToStartTimeout string `json:"defaultTaskScheduleToStartTimeout,omitempty"`
	DefaultTaskStartToCloseTimeout    string `json:"defaultTaskStartToCloseTimeout,omitempty"`
	DefaultTaskPriority               string `json:"defaultTaskPriority,omitempty"`
}

// ActivityType is a named, versioned unit of work registered in a domain.
type ActivityType struct {
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
func (a ActivityType) Ref() registration.TypeRef {
	return registration.TypeRef{Name: a.Name, Version: a.Version}
}

func describe(ref registration.TypeRef) string {
	return fmt.Sprintf("ActivityType=[name=%s, version=%s]", ref.Name, ref.Version)
}
