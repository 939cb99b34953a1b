package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrCannotSave       = errors.New("cannot save flow")
)

// SaveRejectedMessage is shown to the user when a flow fails the save check
const SaveRejectedMessage = "Cannot save Flow"

// SavedMessage is shown to the user after a flow is stored
const SavedMessage = "Flow saved successfully!"

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SaveRejectedError is returned when a flow has more than one entry node
type SaveRejectedError struct {
	Flow  string
	Roots []string
}

func (e *SaveRejectedError) Error() string {
	return SaveRejectedMessage
}

// Detail names the offending entry nodes
func (e *SaveRejectedError) Detail() string {
	return fmt.Sprintf("flow %q has %d nodes without incoming edges: %s", e.Flow, len(e.Roots), strings.Join(e.Roots, ", "))
}

func (e *SaveRejectedError) Is(target error) bool {
	return target == ErrCannotSave
}

// ConnectionError represents a rejected edge
type ConnectionError struct {
	SourceID string
	TargetID string
	Reason   string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect %s to %s: %s", e.SourceID, e.TargetID, e.Reason)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// NotFoundError names the missing flow or node
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
