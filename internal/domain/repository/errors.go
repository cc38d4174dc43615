package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write
	// (registration racing on the same email lands here).
	ErrDuplicate = errors.New("duplicate")
)
