package activitytype

import "github.com/rpggio/loom/internal/domain/registration"

// ListOptions provides filtering options for the repository listing.
type ListOptions struct {
	Name   string
	Status registration.Status
}
