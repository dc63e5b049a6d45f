package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cloudtodo/api/internal/middleware"
	"github.com/cloudtodo/api/internal/model"
	"github.com/cloudtodo/api/internal/service"
	"github.com/cloudtodo/api/internal/validation"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ServeHTTP routes /api/v1/todos and /api/v1/todos/{id}
func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/todos")
	path = strings.Trim(path, "/")

	if path != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, path)
		case http.MethodPut:
			h.handleUpdate(w, r, path)
		case http.MethodDelete:
			h.handleDelete(w, r, path)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTodoRequest struct {
	Title          string  `json:"title"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty"`
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r)

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := h.svc.Create(r.Context(), ownerID, service.CreateTodoInput{
		Title:          req.Title,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) handleGet(w http.ResponseWriter, r *http.Request, todoID string) {
	ownerID := middleware.GetOwnerID(r)

	todo, err := h.svc.Get(r.Context(), ownerID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

type updateTodoRequest struct {
	Title           *string `json:"title,omitempty"`
	Completed       *bool   `json:"completed,omitempty"`
	ExpectedVersion *int64  `json:"expectedVersion,omitempty"`
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request, todoID string) {
	ownerID := middleware.GetOwnerID(r)

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	todo, err := h.svc.Update(r.Context(), ownerID, todoID, service.UpdateTodoInput{
		Title:           req.Title,
		Completed:       req.Completed,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, todoID string) {
	ownerID := middleware.GetOwnerID(r)

	deleted, err := h.svc.Delete(r.Context(), ownerID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "todo not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r)

	params := model.TodoListParams{
		OwnerID:   ownerID,
		PageToken: r.URL.Query().Get("pageToken"),
	}

	// An explicitly supplied limit outside [1,100] is the caller's error;
	// only an omitted limit silently gets the default.
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > service.MaxListLimit {
			WriteError(w, http.StatusBadRequest, "INVALID_LIMIT",
				"limit must be an integer between 1 and 100")
			return
		}
		params.Limit = limit
	}

	result, err := h.svc.List(r.Context(), params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		WriteValidationError(w, vErr)
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "todo not found")
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusConflict, "CONFLICT", "todo was modified concurrently, re-fetch and retry")
	case errors.Is(err, service.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
