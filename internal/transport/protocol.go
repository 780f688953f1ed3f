package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	// TargetPrefix prefixes every X-Amz-Target action name.
	TargetPrefix = "SimpleWorkflowService."
	// ContentType is the AWS JSON 1.0 media type.
	ContentType = "application/x-amz-json-1.0"

	faultNamespace      = "com.amazonaws.swf.base.model#"
	validationNamespace = "com.amazon.coral.validate#"
	serviceNamespace    = "com.amazon.coral.service#"
)

// Fault is an SWF error response.
type Fault struct {
	Type    string `json:"__type"`
	Message string `json:"message"`

	name   string
	status int
}

func (f *Fault) Error() string {
	return f.name + ": " + f.Message
}

// Name returns the fault name without its namespace.
func (f *Fault) Name() string {
	return f.name
}

// Status returns the HTTP status the fault is written with.
func (f *Fault) Status() int {
	return f.status
}

// ParseTarget extracts the action from an X-Amz-Target header.
func ParseTarget(header string) (string, error) {
	action, ok := strings.CutPrefix(header, TargetPrefix)
	if !ok || action == "" {
		return "", fmt.Errorf("invalid X-Amz-Target %q", header)
	}
	return action, nil
}

// WriteResult writes a successful action response. A nil result is written as {}.
func WriteResult(w http.ResponseWriter, result any) {
	if result == nil {
		result = struct{}{}
	}
	writeJSON(w, http.StatusOK, result)
}

// WriteFault writes an SWF error response.
func WriteFault(w http.ResponseWriter, f *Fault) {
	writeJSON(w, f.status, f)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
