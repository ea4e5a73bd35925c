package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the post, feed and interaction services
var (
	// ErrNotFound is returned when a post does not exist, is soft-deleted,
	// or is not visible to the viewer
	ErrNotFound = errors.New("post not found")

	// ErrUnauthorized is returned when an operation requires a viewer identity
	// and none was supplied
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the viewer is known but may not mutate the post
	ErrForbidden = errors.New("not authorized to modify this post")

	// ErrNotGroupMember is returned when posting into a group the author has not joined
	ErrNotGroupMember = errors.New("author is not a member of this group")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "post", "group"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match post lookups
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound && e.Resource == "post"
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound)
}
