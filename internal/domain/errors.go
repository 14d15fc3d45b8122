package domain

import "errors"

var (
	// ErrNotFound marks a lookup by id, sequence number or name with no match.
	ErrNotFound = errors.New("not found")
	// ErrInvalid marks input rejected before it reaches the store.
	ErrInvalid = errors.New("invalid")
	// ErrConflict marks a write that would break a uniqueness rule.
	ErrConflict = errors.New("conflict")
)
