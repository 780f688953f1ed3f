package registration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidInput indicates a request member failed validation.
var ErrInvalidInput = errors.New("invalid input")

const (
	maxNameLength    = 256
	maxVersionLength = 64
	maxDescription   = 1024
	maxRetentionDays = 90
	timeoutNone      = "NONE"
)

// ValidateName checks a domain, type or task list name.
func ValidateName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, field)
	}
	if len(value) > maxNameLength {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, maxNameLength)
	}
	if strings.TrimSpace(value) != value {
		return fmt.Errorf("%w: %s must not start or end with whitespace", ErrInvalidInput, field)
	}
	if value == "arn" {
		return fmt.Errorf("%w: %s must not be the literal string arn", ErrInvalidInput, field)
	}
	for _, r := range value {
		if r == ':' || r == '/' || r == '|' || unicode.IsControl(r) {
			return fmt.Errorf("%w: %s contains invalid character %q", ErrInvalidInput, field, r)
		}
	}
	return nil
}

// ValidateDescription checks the optional description length.
func ValidateDescription(value string) error {
	if len(value) > maxDescription {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, maxDescription)
	}
	return nil
}

// ValidateTimeout accepts an empty value, NONE, or a non-negative number of seconds.
func ValidateTimeout(field, value string) error {
	if value == "" || value == timeoutNone {
		return nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: %s must be NONE or a non-negative integer, got %q", ErrInvalidInput, field, value)
	}
	return nil
}

// ValidateRetention accepts NONE or a number of days between 0 and 90.
func ValidateRetention(value string) error {
	if value == timeoutNone {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > maxRetentionDays {
		return fmt.Errorf("%w: workflowExecutionRetentionPeriodInDays must be NONE or 0-%d, got %q", ErrInvalidInput, maxRetentionDays, value)
	}
	return nil
}

// ValidatePriority accepts an empty value or a 32-bit signed integer.
func ValidatePriority(field, value string) error {
	if value == "" {
		return nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("%w: %s must be a 32-bit integer, got %q", ErrInvalidInput, field, value)
	}
	return nil
}

var regionPattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// ValidateRegion checks a region name. Regions are used in storage keys and
// event subjects, so only lowercase letters, digits and '-' are allowed.
func ValidateRegion(region string) error {
	if !regionPattern.MatchString(region) {
		return fmt.Errorf("%w: region %q must match [a-z0-9-]+", ErrInvalidInput, region)
	}
	return nil
}
