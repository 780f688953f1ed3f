package activitytype

import "errors"

var (
	// ErrTypeNotFound indicates the activity type doesn't exist.
	ErrTypeNotFound = errors.New("unknown type")
	// ErrTypeAlreadyExists indicates the (name, version) pair is already registered.
	ErrTypeAlreadyExists = errors.New("type already exists")
	// ErrTypeDeprecated indicates the activity type is already deprecated.
	ErrTypeDeprecated = errors.New("type deprecated")
)
