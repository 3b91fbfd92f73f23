package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughStock      = errors.New("not enough stock")
	ErrInvalidCancellation = errors.New("order can no longer be cancelled")
	ErrDuplicateMember     = errors.New("member already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCount        = errors.New("order count must be positive")
	ErrInvalidItem         = errors.New("invalid item")
	ErrInvalidMember       = errors.New("invalid member")
	ErrIncompleteOrder     = errors.New("order needs a member, a delivery and at least one item")
	ErrInvalidSearch       = errors.New("invalid order search")

	// ErrNotResident is returned when code reads an association the loader
	// did not fetch.
	ErrNotResident = errors.New("association not fetched")

	ErrStorageAccess = errors.New("storage access failure")
	ErrNoUnitOfWork  = errors.New("no active unit of work")
)

// StorageError wraps any failure of the underlying store. Both
// ErrStorageAccess and the cause match with errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageAccess, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageAccess, e.Err}
}

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
