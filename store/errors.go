package store

import "errors"

// Error Handling Guidelines:
// - Stores: wrap with fmt.Errorf("context: %w", err) and return one of the sentinels below
// - Services: translate sentinels into apperrors with errors.Is
// - Handlers: pass apperrors to c.Error and let middleware.ErrorHandler render them

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness or state conflict, e.g. a second join of the same club.
	ErrConflict = errors.New("conflict")

	// ErrCapacity indicates a capacity-limited resource is full.
	ErrCapacity = errors.New("capacity reached")

	// ErrUnavailable indicates a hosted backend is failing and calls are being short-circuited.
	ErrUnavailable = errors.New("backend unavailable")
)
