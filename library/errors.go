package library

import "errors"

// Domain error taxonomy. All of these are recoverable at the shell boundary:
// the operation that signals one has not applied any mutation. ErrPersistence
// is the exception the shell should treat as fatal for the current session,
// since a failed commit means memory and disk may disagree.
var (
	// ErrNotFound indicates a referenced user, book, copy, or loan is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an identifier collision on registration.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotAvailable indicates a borrow attempt on a copy that is out.
	ErrNotAvailable = errors.New("book item not available")

	// ErrNoActiveLoan indicates a return with no loan matching both the copy
	// and the member.
	ErrNoActiveLoan = errors.New("no active loan")

	// ErrNotReservable indicates a reserve attempt on a book that is not
	// available.
	ErrNotReservable = errors.New("book not reservable")

	// ErrInvalidCredentials indicates a failed password check on login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPersistence indicates the durable commit failed.
	ErrPersistence = errors.New("persistence failure")
)
