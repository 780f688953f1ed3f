package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors are
// returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, swfdomain.ErrDomainNotFound):
		return &APIError{Code: "UnknownResourceFault", Message: err.Error(), RecoveryHint: "Check the domain name or register it first"}
	case errors.Is(err, activitytype.ErrTypeNotFound), errors.Is(err, workflowtype.ErrTypeNotFound):
		return &APIError{Code: "UnknownResourceFault", Message: err.Error(), RecoveryHint: "List types to check name and version"}
	case errors.Is(err, swfdomain.ErrDomainAlreadyExists):
		return &APIError{Code: "DomainAlreadyExistsFault", Message: err.Error()}
	case errors.Is(err, swfdomain.ErrDomainDeprecated):
		return &APIError{Code: "DomainDeprecatedFault", Message: err.Error()}
	case errors.Is(err, activitytype.ErrTypeAlreadyExists), errors.Is(err, workflowtype.ErrTypeAlreadyExists):
		return &APIError{Code: "TypeAlreadyExistsFault", Message: err.Error(), RecoveryHint: "Register a new version instead"}
	case errors.Is(err, activitytype.ErrTypeDeprecated), errors.Is(err, workflowtype.ErrTypeDeprecated):
		return &APIError{Code: "TypeDeprecatedFault", Message: err.Error()}
	case errors.Is(err, registration.ErrInvalidInput):
		return &APIError{Code: "ValidationException", Message: err.Error()}
	default:
		return err
	}
}
