package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures an invalid field or an incompatible field
// combination. It is always raised before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConnectionError represents a failed probe or action call against a remote
// management controller. The host is kept for the failure message.
type ConnectionError struct {
	Host string
	Err  error
}

// NewConnectionError constructs a ConnectionError.
func NewConnectionError(host string, err error) error {
	return &ConnectionError{Host: host, Err: err}
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("failure communicating with %s: %v", e.Host, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SafetyError is raised when the probed server identity does not carry the
// expected prefix. No mutating call has been issued when this is returned.
type SafetyError struct {
	Match    string
	Identity string
}

// NewSafetyError constructs a SafetyError.
func NewSafetyError(match, identity string) error {
	return &SafetyError{Match: match, Identity: identity}
}

func (e *SafetyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("safety check failed: server identity %q does not match %q", e.Identity, e.Match)
}

// AlreadyPoweredOnError signals that a power transition was refused because
// the server is already on and force was not set.
type AlreadyPoweredOnError struct {
	Host string
}

// NewAlreadyPoweredOnError constructs an AlreadyPoweredOnError.
func NewAlreadyPoweredOnError(host string) error {
	return &AlreadyPoweredOnError{Host: host}
}

func (e *AlreadyPoweredOnError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("management controller (%s) reports that the server is already powered on", e.Host)
}

// DependencyError indicates a required executable collaborator is missing
// from the target host. It is raised before any argument-driven work.
type DependencyError struct {
	Name string
}

// NewDependencyError constructs a DependencyError.
func NewDependencyError(name string) error {
	return &DependencyError{Name: name}
}

func (e *DependencyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unable to find %s, is it installed?", e.Name)
}

// ExecutionError represents an imperative step that finished with a nonzero
// return code. Output carries the aggregated captured text of every step that
// ran, and Cmd the composed command for diagnosis.
type ExecutionError struct {
	Cmd    string
	RC     int
	Output string
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(cmd string, rc int, output string) error {
	return &ExecutionError{Cmd: cmd, RC: rc, Output: output}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cmd != "" {
		return fmt.Sprintf("execution error (rc=%d) running %s: %s", e.RC, e.Cmd, e.Output)
	}
	return fmt.Sprintf("execution error (rc=%d): %s", e.RC, e.Output)
}
