package http

import (
	"net/http"

	"github.com/cloudtodo/api/internal/http/handler"
	"github.com/cloudtodo/api/internal/service"
)

func NewRouter(todoSvc *service.TodoService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check - outside /api/v1 for load-balancer compatibility
	mux.Handle("/health", handler.NewHealthHandler(todoSvc))

	// Todo CRUD API
	todoHandler := handler.NewTodoHandler(todoSvc)
	mux.Handle("/api/v1/todos", todoHandler)
	mux.Handle("/api/v1/todos/", todoHandler)

	// Auth API; mounted only when an identity provider is configured
	if authSvc != nil {
		authHandler := handler.NewAuthHandler(authSvc)
		mux.Handle("/api/v1/auth/", authHandler)
	}

	return mux
}
