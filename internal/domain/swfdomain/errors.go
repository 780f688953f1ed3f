package swfdomain

import "errors"

var (
	// ErrDomainNotFound indicates the domain doesn't exist.
	ErrDomainNotFound = errors.New("unknown domain")
	// ErrDomainAlreadyExists indicates the domain name is taken, or already registered on undeprecate.
	ErrDomainAlreadyExists = errors.New("domain already exists")
	// ErrDomainDeprecated indicates the domain is already deprecated.
	ErrDomainDeprecated = errors.New("domain deprecated")
)
