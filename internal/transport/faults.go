package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/loom/internal/domain/activitytype"
	"github.com/rpggio/loom/internal/domain/registration"
	"github.com/rpggio/loom/internal/domain/swfdomain"
	"github.com/rpggio/loom/internal/domain/workflowtype"
)

// Fault names returned by the service.
const (
	FaultUnknownResource    = "UnknownResourceFault"
	FaultTypeAlreadyExists  = "TypeAlreadyExistsFault"
	FaultTypeDeprecated     = "TypeDeprecatedFault"
	FaultDomainExists       = "DomainAlreadyExistsFault"
	FaultDomainDeprecated   = "DomainDeprecatedFault"
	FaultSerialization      = "SerializationException"
	FaultValidation         = "ValidationException"
	FaultUnknownOperation   = "UnknownOperationException"
	FaultInternal           = "InternalFailure"
	faultResultOK           = "ok"
	validationMessagePrefix = "1 validation error detected: "
)

func newFault(name, message string) *Fault {
	return &Fault{Type: faultNamespace + name, Message: message, name: name, status: http.StatusBadRequest}
}

func validationFault(message string) *Fault {
	return &Fault{
		Type:    validationNamespace + FaultValidation,
		Message: validationMessagePrefix + message,
		name:    FaultValidation,
		status:  http.StatusBadRequest,
	}
}

func serializationFault(message string) *Fault {
	return newFault(FaultSerialization, message)
}

func unknownOperationFault(action string) *Fault {
	return &Fault{
		Type:    serviceNamespace + FaultUnknownOperation,
		Message: fmt.Sprintf("unknown operation %q", action),
		name:    FaultUnknownOperation,
		status:  http.StatusBadRequest,
	}
}

func internalFault() *Fault {
	return &Fault{
		Type:    serviceNamespace + FaultInternal,
		Message: "internal failure",
		name:    FaultInternal,
		status:  http.StatusInternalServerError,
	}
}

// faultFor maps service errors to SWF faults. Errors it does not recognize become
// InternalFailure.
func faultFor(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}

	switch {
	case errors.Is(err, swfdomain.ErrDomainNotFound),
		errors.Is(err, activitytype.ErrTypeNotFound),
		errors.Is(err, workflowtype.ErrTypeNotFound):
		return newFault(FaultUnknownResource, err.Error())
	case errors.Is(err, activitytype.ErrTypeAlreadyExists),
		errors.Is(err, workflowtype.ErrTypeAlreadyExists):
		return newFault(FaultTypeAlreadyExists, err.Error())
	case errors.Is(err, activitytype.ErrTypeDeprecated),
		errors.Is(err, workflowtype.ErrTypeDeprecated):
		return newFault(FaultTypeDeprecated, err.Error())
	case errors.Is(err, swfdomain.ErrDomainAlreadyExists):
		return newFault(FaultDomainExists, err.Error())
	case errors.Is(err, swfdomain.ErrDomainDeprecated):
		return newFault(FaultDomainDeprecated, err.Error())
	case errors.Is(err, registration.ErrInvalidInput):
		return validationFault(err.Error())
	default:
		return internalFault()
	}
}
