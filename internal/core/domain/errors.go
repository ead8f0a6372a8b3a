package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSource indicates an unrecognised metadata source name.
	ErrUnknownSource = errors.New("unknown source")

	// ErrMissingDOI indicates a work record without a DOI reached a point
	// where one is required.
	ErrMissingDOI = errors.New("work has no doi")

	// ErrStoreClosed indicates a write was attempted on a closed sink or store.
	ErrStoreClosed = errors.New("store closed")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
