package usecase

import (
	"errors"
	"fmt"

	"github.com/wichananm65/camera-store-backend/internal/domain/repository"
)

// ValidationError reports malformed or missing input to a mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// HasChildrenError is returned when a category with children is deleted
// without cascade. ChildCount lets the caller re-prompt for confirmation.
type HasChildrenError struct {
	CategoryID int64
	ChildCount int
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("category %d has %d child categories", e.CategoryID, e.ChildCount)
}

// NotFoundError reports a reference to a nonexistent record.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// notFound converts repository.ErrNotFound into a NotFoundError and passes
// other errors through.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
