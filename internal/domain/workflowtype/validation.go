package workflowtype

import (
	"fmt"

	"github.com/rpggio/loom/internal/domain/registration"
)

// ValidateRegister validates fields required to register a workflow type.
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
	if err := registration.ValidateTimeout("defaultTaskStartToCloseTimeout", cfg.DefaultTaskStartToCloseTimeout); err != nil {
		return err
	}
	if err := registration.ValidateTimeout("defaultExecutionStartToCloseTimeout", cfg.DefaultExecutionStartToCloseTimeout); err != nil {
		return err
	}
	switch cfg.DefaultChildPolicy {
	case "", ChildPolicyTerminate, ChildPolicyRequestCancel, ChildPolicyAbandon:
	default:
		return fmt.Errorf("%w: defaultChildPolicy must be TERMINATE, REQUEST_CANCEL or ABANDON, got %q",
			registration.ErrInvalidInput, cfg.DefaultChildPolicy)
	}
	return registration.ValidatePriority("defaultTaskPriority", cfg.DefaultTaskPriority)
}
