package service

import "errors"

// The closed error taxonomy exposed to the transport layer. Handlers
// classify with errors.Is (plus errors.As for *validation.Error); nothing
// is ever classified by string matching.
var (
	// ErrInvalidInput covers malformed request values outside field-level
	// validation, such as an undecodable page token.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers absent records and, identically, records owned by
	// a different caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a lost optimistic-concurrency race; the caller
	// should re-fetch and retry.
	ErrConflict = errors.New("conflict")
	// ErrUnauthenticated means no caller identity was supplied.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrStorage wraps unexpected store faults.
	ErrStorage = errors.New("storage failure")
)
