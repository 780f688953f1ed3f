package registration

import "fmt"

// Status is the lifecycle status shared by domains and registered types.
type Status string

const (
	StatusRegistered Status = "REGISTERED"
	StatusDeprecated Status = "DEPRECATED"
)

// ParseStatus converts a wire value into a Status.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusRegistered, StatusDeprecated:
		return Status(value), nil
	default:
		return "", fmt.Errorf("%w: registrationStatus must be REGISTERED or DEPRECATED, got %q", ErrInvalidInput, value)
	}
}

func (s Status) String() string {
	return string(s)
}

// TypeRef identifies a registered type within a domain.
type TypeRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Validate checks the name and version of the reference.
func (r TypeRef) Validate() error {
	if err := ValidateName("name", r.Name); err != nil {
		return err
	}
	if err := ValidateName("version", r.Version); err != nil {
		return err
	}
	if len(r.Version) > maxVersionLength {
		return fmt.Errorf("%w: version must be at most %d characters", ErrInvalidInput, maxVersionLength)
	}
	return nil
}
