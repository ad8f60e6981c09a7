package shared

import (
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
)

// StorageError reports a failed store operation for a single reference row.
// Entity is the table name and Key the natural key of the offending entry.
type StorageError struct {
	Op     string
	Entity string
	Key    string
	Err    error
}

// NewStorageError creates a new storage error
func NewStorageError(op, entity, key string, err error) *StorageError {
	return &StorageError{
		Op:     op,
		Entity: entity,
		Key:    key,
		Err:    err,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Key, e.Err)
}

// Unwrap returns the underlying store error
func (e *StorageError) Unwrap() error {
	return e.Err
}
