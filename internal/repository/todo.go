package repository

import (
	"context"
	"errors"

	"github.com/cloudtodo/api/internal/model"
)

// Sentinel errors shared by every store driver. Drivers translate their
// native failure modes into these; the service layer maps them onto its own
// taxonomy with errors.Is.
var (
	// ErrNotFound means no record exists under the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists means an insert's not-exists precondition failed.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrVersionConflict means an update's version precondition failed.
	ErrVersionConflict = errors.New("record version conflict")
	// ErrBadPageToken means a listing continuation token could not be decoded.
	ErrBadPageToken = errors.New("malformed page token")
)

// TodoRepository is the key-value store contract for todo records.
//
// Insert and Update are conditional writes: Insert requires the id to be
// absent, Update requires the stored version to equal expectedVersion. All
// mutual exclusion in the system is delegated to these two preconditions.
type TodoRepository interface {
	Insert(ctx context.Context, todo model.Todo) error
	GetByID(ctx context.Context, id string) (model.Todo, error)
	FindByIdempotencyKey(ctx context.Context, ownerID, key string) (model.Todo, error)
	Update(ctx context.Context, todo model.Todo, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, params model.TodoListParams) (model.TodoListResult, error)
	// Ping performs the cheapest possible read to confirm the store is
	// reachable.
	Ping(ctx context.Context) error
}
