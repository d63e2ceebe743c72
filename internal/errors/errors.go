package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ComponentNotFound indicates a component query resolved to nothing
	ComponentNotFound ErrorCode = "COMPONENT_NOT_FOUND"
	// DanglingConnection indicates a connection referencing a component id
	// that is neither present in the scan result nor a recognized placeholder
	DanglingConnection ErrorCode = "DANGLING_CONNECTION"
	// InvalidEnum indicates a value outside a closed enum
	InvalidEnum ErrorCode = "INVALID_ENUM"
	// SnapshotCorrupt indicates a persisted snapshot failed to parse
	SnapshotCorrupt ErrorCode = "SNAPSHOT_CORRUPT"
	// ScanTimeout indicates a scan exceeded its time budget
	ScanTimeout ErrorCode = "SCAN_TIMEOUT"
	// StorageUnavailable indicates the local database could not be opened
	StorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ArchError represents an archmap error with a stable code and message
type ArchError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new ArchError
func New(code ErrorCode, message string, cause error) *ArchError {
	return &ArchError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ArchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ArchError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ArchError) WithDetails(details interface{}) *ArchError {
	e.Details = details
	return e
}
