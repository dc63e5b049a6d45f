package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/cloudtodo/api/internal/model"
)

// MemoryTodoRepository keeps records in process memory behind the same
// sentinel-error contract as the DynamoDB driver. It backs local development
// without AWS and the service-level tests.
type MemoryTodoRepository struct {
	mu    sync.Mutex
	todos map[string]model.Todo
}

func NewMemoryTodo() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: make(map[string]model.Todo)}
}

func (r *MemoryTodoRepository) Insert(_ context.Context, todo model.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todo.ID]; ok {
		return ErrAlreadyExists
	}
	r.todos[todo.ID] = todo
	return nil
}

func (r *MemoryTodoRepository) GetByID(_ context.Context, id string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	return todo, nil
}

func (r *MemoryTodoRepository) FindByIdempotencyKey(_ context.Context, ownerID, key string) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, todo := range r.todos {
		if todo.OwnerID == ownerID && todo.IdempotencyKey == key {
			return todo, nil
		}
	}
	return model.Todo{}, ErrNotFound
}

func (r *MemoryTodoRepository) Update(_ context.Context, todo model.Todo, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.todos[todo.ID]
	if !ok {
		return ErrVersionConflict
	}
	if current.Version != expectedVersion {
		return ErrVersionConflict
	}
	r.todos[todo.ID] = todo
	return nil
}

func (r *MemoryTodoRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepository) ListByOwner(_ context.Context, params model.TodoListParams) (model.TodoListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := make([]model.Todo, 0)
	for _, todo := range r.todos {
		if todo.OwnerID == params.OwnerID {
			owned = append(owned, todo)
		}
	}

	// Newest first; id breaks createdAt ties so pagination is stable.
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt != owned[j].CreatedAt {
			return owned[i].CreatedAt > owned[j].CreatedAt
		}
		return owned[i].ID > owned[j].ID
	})

	start := 0
	if params.PageToken != "" {
		cursor, err := decodeCursor(params.PageToken)
		if err != nil {
			return model.TodoListResult{}, err
		}
		// Resume strictly after the cursor position, even if the cursor
		// record itself was deleted in the meantime.
		for start < len(owned) {
			t := owned[start]
			if t.CreatedAt < cursor.CreatedAt || (t.CreatedAt == cursor.CreatedAt && t.ID < cursor.ID) {
				break
			}
			start++
		}
	}

	end := start + params.Limit
	if end > len(owned) {
		end = len(owned)
	}
	items := append([]model.Todo(nil), owned[start:end]...)

	var nextToken string
	if end < len(owned) {
		last := owned[end-1]
		nextToken = encodeCursor(pageCursor{
			ID:        last.ID,
			OwnerID:   last.OwnerID,
			CreatedAt: last.CreatedAt,
		})
	}

	return model.TodoListResult{
		Items:         items,
		NextPageToken: nextToken,
		Count:         len(items),
		Limit:         params.Limit,
		HasMore:       nextToken != "",
	}, nil
}

func (r *MemoryTodoRepository) Ping(_ context.Context) error {
	return nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*MemoryTodoRepository)(nil)
