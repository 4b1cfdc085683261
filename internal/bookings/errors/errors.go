package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrAlreadyInStatus is returned by a conditional status update whose
	// target document already carries the requested status.
	ErrAlreadyInStatus = errors.New("booking already in requested status")
)
