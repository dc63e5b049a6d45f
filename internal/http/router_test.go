package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	internalhttp "github.com/cloudtodo/api/internal/http"
	"github.com/cloudtodo/api/internal/middleware"
	"github.com/cloudtodo/api/internal/model"
	"github.com/cloudtodo/api/internal/repository"
	"github.com/cloudtodo/api/internal/service"
)

// newStack builds the full middleware chain over the real router with the
// in-memory store and dev-mode auth, the way local development runs.
func newStack(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	todoSvc := service.NewTodoService(repository.NewMemoryTodo())

	auth, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true})
	if err != nil {
		t.Fatalf("NewAuth failed: %v", err)
	}

	router := internalhttp.NewRouter(todoSvc, nil)
	return middleware.Recovery(logger)(middleware.Logging(logger)(auth.Middleware(router)))
}

func do(h http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_EndToEnd(t *testing.T) {
	h := newStack(t)

	// Create.
	rec := do(h, http.MethodPost, "/api/v1/todos", "alice", `{"title":"buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var todo model.Todo
	if err := json.NewDecoder(rec.Body).Decode(&todo); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	// Read it back.
	rec = do(h, http.MethodGet, "/api/v1/todos/"+todo.ID, "alice", "")
	if rec.Code != http.StatusOK {
		t.Errorf("get = %d, want 200", rec.Code)
	}

	// Complete it.
	rec = do(h, http.MethodPut, "/api/v1/todos/"+todo.ID, "alice", `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Errorf("update = %d, want 200", rec.Code)
	}

	// Another tenant sees nothing.
	rec = do(h, http.MethodGet, "/api/v1/todos/"+todo.ID, "bob", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-tenant get = %d, want 404", rec.Code)
	}
	rec = do(h, http.MethodGet, "/api/v1/todos", "bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cross-tenant list = %d, want 200", rec.Code)
	}
	var result model.TodoListResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("cross-tenant list count = %d, want 0", result.Count)
	}

	// Delete, then delete again.
	rec = do(h, http.MethodDelete, "/api/v1/todos/"+todo.ID, "alice", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", rec.Code)
	}
	rec = do(h, http.MethodDelete, "/api/v1/todos/"+todo.ID, "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeated delete = %d, want 404", rec.Code)
	}
}

func TestRouter_HealthNeedsNoAuth(t *testing.T) {
	h := newStack(t)

	rec := do(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d, want 200 without credentials", rec.Code)
	}
}

func TestRouter_TodosNeedAuth(t *testing.T) {
	h := newStack(t)

	rec := do(h, http.MethodGet, "/api/v1/todos", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list = %d, want 401", rec.Code)
	}
}

func TestRouter_AuthEndpointsUnmountedWithoutProvider(t *testing.T) {
	h := newStack(t)

	rec := do(h, http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@b.c","password":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("auth login without a provider = %d, want 404", rec.Code)
	}
}

func TestRouter_UnknownPath(t *testing.T) {
	h := newStack(t)

	rec := do(h, http.MethodGet, "/api/v2/todos", "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", rec.Code)
	}
}
