package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateUsername indicates an account with the same username already exists
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")
)
