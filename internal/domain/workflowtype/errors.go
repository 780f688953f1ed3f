package workflowtype

import "errors"

var (
	// ErrTypeNotFound indicates the workflow type doesn't exist.
	ErrTypeNotFound = errors.New("unknown type")
	// ErrTypeAlreadyExists indicates the (name, version) pair is already registered.
	ErrTypeAlreadyExists = errors.New("type already exists")
	// ErrTypeDeprecated indicates the workflow type is already deprecated.
	ErrTypeDeprecated = errors.New("type deprecated")
)
