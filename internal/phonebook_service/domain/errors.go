package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicatePhoneNumber indicates a unique constraint violation on phone_number.
	ErrDuplicatePhoneNumber = errors.New("phone number already registered")
)

// Field error messages returned to API clients.
const (
	MsgPhoneNumberTaken   = "This phone number is already registered"
	MsgPhoneNumberInvalid = "The phone number is invalid"
	MsgInvalidCountry     = "Invalid country code"
	MsgInvalidTimezone    = "Invalid timezone name"
)

// RequiredMessage is the message used when field is missing.
func RequiredMessage(field string) string {
	return "The " + field + " is required"
}

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e as an error when it holds messages, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
