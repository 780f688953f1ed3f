package activitytype

import "github.com/rpggio/loom/internal/domain/registration"

// ValidateRegister validates fields required to register an activity type.
func ValidateRegister(req RegisterRequest) error {
	if err := registration.ValidateName("domain", req.Domain); err != nil {
		return err
	}
	ref := registration.TypeRef{Name: req.Name, Version: req.Version}
	if err := ref.Validate(); err != nil {
		return err
	}
	if err := registration.ValidateDescription(req.Description); err != nil {
		return err
	}

	cfg := req.Configuration
	if cfg.DefaultTaskList != "" {
		if err := registration.ValidateName("defaultTaskList.name", cfg.DefaultTaskList); err != nil {
			return err
		}
	}
	timeouts := []struct{ field, value string }{
		{"defaultTaskHeartbeatTimeout", cfg.DefaultTaskHeartbeatTimeout},
		{"defaultTaskScheduleToCloseTimeout", cfg.DefaultTaskScheduleToCloseTimeout},
		{"defaultTaskScheduleToStartTimeout", cfg.DefaultTaskScheduleToStartTimeout},
		{"defaultTaskStartToCloseTimeout", cfg.DefaultTaskStartToCloseTimeout},
	}
	for _, tm := range timeouts {
		if err := registration.ValidateTimeout(tm.field, tm.value); err != nil {
			return err
		}
	}
	return registration.ValidatePriority("defaultTaskPriority", cfg.DefaultTaskPriority)
}
