package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SyncError is a transport failure talking to the order store.
// Local cart and order state is never modified when one is returned.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NotFoundError reports an update aimed at a row the store does not have.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order with ID %s not found", e.ID)
}

// MalformedRowError reports a fetched row missing required fields.
type MalformedRowError struct {
	Reason string
}

func (e *MalformedRowError) Error() string {
	return "malformed order row: " + e.Reason
}

// InvalidTransitionError reports a status change the lifecycle forbids.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}
