package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidCode      = "INVALID_CODE"
	ErrCodeInvalidUserID    = "INVALID_USER_ID"
	ErrCodeInvalidTimestamp = "INVALID_TIMESTAMP"
	ErrCodeCodeExists       = "CODE_EXISTS"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeStorage          = "STORAGE_ERROR"
	ErrCodeImportFailed     = "IMPORT_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidCode      = NewDomainError(ErrCodeInvalidCode, "Code must not be empty")
	ErrInvalidUserID    = NewDomainError(ErrCodeInvalidUserID, "User ID must be an integer")
	ErrInvalidTimestamp = NewDomainError(ErrCodeInvalidTimestamp, "Timestamp must use the YYYY-MM-DD HH:MM:SS format")
	ErrCodeExists       = NewDomainError(ErrCodeCodeExists, "Code already exists")
)

// StorageError is returned by repositories when the underlying store fails.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for the named operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
