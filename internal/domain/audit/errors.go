package audit

import "errors"

// ErrInvalidInput indicates an audit entry is missing required fields.
var ErrInvalidInput = errors.New("invalid audit entry")
