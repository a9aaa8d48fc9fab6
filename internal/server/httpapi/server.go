// Package httpapi wires the HTTP surface: auth endpoints, the guarded
// task routes, and a liveness root.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danial-baraty/express-todo-api/internal/server/auth"
	"github.com/danial-baraty/express-todo-api/internal/server/cache"
	"github.com/danial-baraty/express-todo-api/internal/server/middleware"
	"github.com/danial-baraty/express-todo-api/internal/server/tasks"
	"github.com/danial-baraty/express-todo-api/internal/server/users"
)

// Server holds the request handlers and their dependencies. All
// dependencies are constructed once at startup and injected here; none
// are looked up ambiently.
type Server struct {
	users        *users.Service
	tasks        *tasks.Service
	tokens       *auth.Manager
	userCache    *cache.UserCache
	userRepo     users.Repository
	logger       *slog.Logger
	tokenTTL     time.Duration
	secureCookie bool
}

// Options bundles the Server dependencies.
type Options struct {
	Users        *users.Service
	Tasks        *tasks.Service
	Tokens       *auth.Manager
	UserCache    *cache.UserCache
	UserRepo     users.Repository
	Logger       *slog.Logger
	TokenTTL     time.Duration
	SecureCookie bool
}

func NewServer(opts Options) *Server {
	return &Server{
		users:        opts.Users,
		tasks:        opts.Tasks,
		tokens:       opts.Tokens,
		userCache:    opts.UserCache,
		userRepo:     opts.UserRepo,
		logger:       opts.Logger,
		tokenTTL:     opts.TokenTTL,
		secureCookie: opts.SecureCookie,
	}
}

// Handler builds the route tree. Task routes sit behind the
// authentication gate; auth routes and the liveness root do not.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Todo API is running..."))
	})

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	guard := middleware.Guard(s.tokens, s.userCache, s.userRepo, s.logger)
	mux.Handle("GET /api/tasks", guard(http.HandlerFunc(s.handleListTasks)))
	mux.Handle("POST /api/tasks", guard(http.HandlerFunc(s.handleCreateTask)))
	mux.Handle("PUT /api/tasks/{id}", guard(http.HandlerFunc(s.handleUpdateTask)))
	mux.Handle("DELETE /api/tasks/{id}", guard(http.HandlerFunc(s.handleDeleteTask)))

	return mux
}
