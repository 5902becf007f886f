package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID matches any DuplicateIDError via errors.Is.
	ErrDuplicateID = errors.New("tree: duplicate comment id")
	// ErrNotFound matches any NotFoundError via errors.Is.
	ErrNotFound = errors.New("tree: comment not found")
)

// DuplicateIDError is returned when appending a record whose id is already in
// the thread. It points at a double confirmation, never at user input.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("tree: duplicate comment id %q", e.ID)
}

// Is lets errors.Is match ErrDuplicateID.
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// NotFoundError is returned when a mutation targets an id that is not in the
// thread, including appending a reply whose parent is gone.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tree: comment %q not found", e.ID)
}

// Is lets errors.Is match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
