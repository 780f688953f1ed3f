package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an entity with the same key is already stored
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnchanged is returned when a status update finds the entity already in
	// the requested status
	ErrUnchanged = errors.New("status unchanged")
)
