package internal

import "fmt"

// ValidationError represents rejected caller input (bad project token,
// missing request id). It never depends on filesystem state.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// NotFoundError represents a missing resource: an absent project directory,
// an unknown session id, or an already-completed request. Callers map it to
// a 404-style response.
type NotFoundError struct {
	Resource string // "project", "conversation", "request"
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// StorageError represents errors accessing transcript or audit storage
type StorageError struct {
	Path string
	Op   string // "open", "read", "stat", "exec"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing a transcript line or config data
type ParseError struct {
	Source string // file path or "config"
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error %s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EnvironmentError represents a fault outside the caller's control, such as
// an undiscoverable home directory. Callers map it to a 500-style response.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment error: %s: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}
