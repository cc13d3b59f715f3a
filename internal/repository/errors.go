package repository

import "errors"

var (
	// ErrDuplicate is returned when an insert hits a unique constraint
	ErrDuplicate = errors.New("record already exists")

	// ErrConstraint is returned when an insert hits a CHECK constraint
	ErrConstraint = errors.New("record violates a storage constraint")
)
