package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Request-level error types implementing HTTPError
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")

	// Structural errors. These indicate an integration bug upstream and are
	// never recovered silently.
	ErrUnknownWidgetType = errors.New("unknown widget type")
	ErrWidgetNotFound    = errors.New("widget not found")
	ErrCyclicMove        = errors.New("cyclic move")
	ErrInvalidParent     = errors.New("invalid parent")
	ErrDuplicateWidgetID = errors.New("duplicate widget id")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (page)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// UnknownWidgetTypeError is returned when a widget type has no registered definition.
type UnknownWidgetTypeError struct {
	Type string
}

func (e *UnknownWidgetTypeError) Error() string {
	return fmt.Sprintf("unknown widget type %q", e.Type)
}
func (e *UnknownWidgetTypeError) StatusCode() int      { return http.StatusBadRequest }
func (e *UnknownWidgetTypeError) Is(target error) bool { return target == ErrUnknownWidgetType }

// WidgetNotFoundError is returned when a widget id is absent from a tree.
type WidgetNotFoundError struct {
	ID string
}

func (e *WidgetNotFoundError) Error() string {
	return fmt.Sprintf("widget %q not found", e.ID)
}
func (e *WidgetNotFoundError) StatusCode() int      { return http.StatusNotFound }
func (e *WidgetNotFoundError) Is(target error) bool { return target == ErrWidgetNotFound }

// CyclicMoveError is returned when a widget would be moved into its own subtree.
type CyclicMoveError struct {
	WidgetID string
	TargetID string
}

func (e *CyclicMoveError) Error() string {
	return fmt.Sprintf("cannot move widget %q into its own subtree (target %q)", e.WidgetID, e.TargetID)
}
func (e *CyclicMoveError) StatusCode() int      { return http.StatusConflict }
func (e *CyclicMoveError) Is(target error) bool { return target == ErrCyclicMove }

// InvalidParentError is returned when children are attached to a non-container widget.
type InvalidParentError struct {
	ParentID   string
	ParentType string
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("widget %q of type %q cannot hold children", e.ParentID, e.ParentType)
}
func (e *InvalidParentError) StatusCode() int      { return http.StatusBadRequest }
func (e *InvalidParentError) Is(target error) bool { return target == ErrInvalidParent }

// DuplicateWidgetIDError is returned when a decoded tree reuses a widget id.
type DuplicateWidgetIDError struct {
	ID string
}

func (e *DuplicateWidgetIDError) Error() string {
	return fmt.Sprintf("widget id %q appears more than once", e.ID)
}
func (e *DuplicateWidgetIDError) StatusCode() int      { return http.StatusBadRequest }
func (e *DuplicateWidgetIDError) Is(target error) bool { return target == ErrDuplicateWidgetID }
