package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cloudtodo/api/internal/model"
	"github.com/cloudtodo/api/internal/repository"
	"github.com/cloudtodo/api/internal/validation"
)

const (
	// DefaultListLimit applies when a list request omits the limit.
	DefaultListLimit = 50
	// MaxListLimit bounds an explicitly supplied limit.
	MaxListLimit = 100
)

type CreateTodoInput struct {
	Title          string
	IdempotencyKey *string
}

// UpdateTodoInput is an explicit patch: nil fields are left untouched.
// ExpectedVersion, when set, must match the stored version; when nil the
// version read during the update gates the write instead.
type UpdateTodoInput struct {
	Title           *string
	Completed       *bool
	ExpectedVersion *int64
}

// TodoService owns the persistence and authorization core: input
// validation, ownership gating, idempotent creation, optimistic-locking
// updates and owner-scoped listing. It holds no state besides the injected
// store handle.
type TodoService struct {
	repo  repository.TodoRepository
	now   func() time.Time
	newID func() string
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// authorize applies the ownership rule: a record owned by someone else is
// indistinguishable from an absent one, so existence never leaks across
// tenants.
func authorize(todo model.Todo, ownerID string) error {
	if todo.OwnerID != ownerID {
		return ErrNotFound
	}
	return nil
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner id is required", ErrUnauthenticated)
	}
	return nil
}

// Create validates and persists a new record for ownerID.
//
// When an idempotency key is supplied, a prior record carrying it is
// returned as-is instead of creating a duplicate. The lookup is best-effort:
// if it fails the creation proceeds (fail open) rather than blocking the
// caller, accepting a possible duplicate under a lookup outage.
func (s *TodoService) Create(ctx context.Context, ownerID string, input CreateTodoInput) (model.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return model.Todo{}, err
	}
	if err := validation.CreateTodo(input.Title, input.IdempotencyKey); err != nil {
		return model.Todo{}, err
	}

	if input.IdempotencyKey != nil {
		existing, err := s.repo.FindByIdempotencyKey(ctx, ownerID, *input.IdempotencyKey)
		switch {
		case err == nil:
			return existing, nil
		case !errors.Is(err, repository.ErrNotFound):
			slog.WarnContext(ctx, "idempotency lookup failed, proceeding with create",
				"owner_id", ownerID, "error", err)
		}
	}

	now := model.Timestamp(s.now())
	todo := model.Todo{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(input.Title),
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   0,
	}
	if input.IdempotencyKey != nil {
		todo.IdempotencyKey = *input.IdempotencyKey
	}

	if err := s.repo.Insert(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// An id collision means a concurrent writer already satisfied
			// the same intent; return the record that won.
			winner, readErr := s.repo.GetByID(ctx, todo.ID)
			if readErr != nil {
				return model.Todo{}, fmt.Errorf("%w: re-read after create race: %v", ErrStorage, readErr)
			}
			return winner, nil
		}
		return model.Todo{}, fmt.Errorf("%w: create todo: %v", ErrStorage, err)
	}

	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, ownerID, id string) (model.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return model.Todo{}, err
	}
	if err := validation.TodoID(id); err != nil {
		return model.Todo{}, err
	}

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("%w: get todo: %v", ErrStorage, err)
	}
	if err := authorize(todo, ownerID); err != nil {
		return model.Todo{}, err
	}

	return todo, nil
}

// Update applies the patch to the caller's record under optimistic locking.
// A stale ExpectedVersion, or a concurrent writer slipping between the read
// and the conditional write, yields ErrConflict.
func (s *TodoService) Update(ctx context.Context, ownerID, id string, input UpdateTodoInput) (model.Todo, error) {
	if err := requireOwner(ownerID); err != nil {
		return model.Todo{}, err
	}
	if err := validation.TodoID(id); err != nil {
		return model.Todo{}, err
	}
	if err := validation.UpdateTodo(input.Title); err != nil {
		return model.Todo{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("%w: get todo for update: %v", ErrStorage, err)
	}
	if err := authorize(current, ownerID); err != nil {
		return model.Todo{}, err
	}

	expected := current.Version
	if input.ExpectedVersion != nil {
		if *input.ExpectedVersion != current.Version {
			return model.Todo{}, fmt.Errorf("%w: expected version %d, stored version %d",
				ErrConflict, *input.ExpectedVersion, current.Version)
		}
		expected = *input.ExpectedVersion
	}

	updated := current
	if input.Title != nil {
		updated.Title = strings.TrimSpace(*input.Title)
	}
	if input.Completed != nil {
		updated.Completed = *input.Completed
	}
	updated.UpdatedAt = model.Timestamp(s.now())
	updated.Version = expected + 1

	if err := s.repo.Update(ctx, updated, expected); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return model.Todo{}, fmt.Errorf("%w: todo changed since read at version %d", ErrConflict, expected)
		}
		return model.Todo{}, fmt.Errorf("%w: update todo: %v", ErrStorage, err)
	}

	return updated, nil
}

// Delete removes the caller's record. A missing or foreign record reports
// false without error; deleting twice is not a failure.
func (s *TodoService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	if err := requireOwner(ownerID); err != nil {
		return false, err
	}
	if err := validation.TodoID(id); err != nil {
		return false, err
	}

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: get todo for delete: %v", ErrStorage, err)
	}
	if authorize(todo, ownerID) != nil {
		return false, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("%w: delete todo: %v", ErrStorage, err)
	}

	return true, nil
}

// List returns one page of the caller's records, newest first. The handler
// layer is responsible for rejecting an explicitly out-of-range limit; a
// zero limit here means "use the default".
func (s *TodoService) List(ctx context.Context, params model.TodoListParams) (model.TodoListResult, error) {
	if err := requireOwner(params.OwnerID); err != nil {
		return model.TodoListResult{}, err
	}

	if params.Limit == 0 {
		params.Limit = DefaultListLimit
	}
	if params.Limit < 1 || params.Limit > MaxListLimit {
		return model.TodoListResult{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxListLimit)
	}

	result, err := s.repo.ListByOwner(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrBadPageToken) {
			return model.TodoListResult{}, fmt.Errorf("%w: invalid page token", ErrInvalidInput)
		}
		return model.TodoListResult{}, fmt.Errorf("%w: list todos: %v", ErrStorage, err)
	}

	return result, nil
}

// HealthCheck confirms that the store answers the cheapest possible read.
func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
