// Package server wires the application together: database, services,
// handlers, middleware, and routes.
//
// This is the composition root — every dependency is assembled here, in one
// place, instead of being scattered across the codebase:
//
//	sqlite.DB → services (via repository interfaces) → handlers → routes
//
// main.go stays minimal: load config, build a Server, start it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/handler"
	"github.com/sakif/student-records/internal/middleware"
	sqliteRepo "github.com/sakif/student-records/internal/repository/sqlite"
	"github.com/sakif/student-records/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port        int
	DBPath      string
	JWTSecret   string
	CORSOrigins []string
}

// Server owns the router, the database connection, and the shutdown logic.
// The DB connection is closed during graceful shutdown — skipping that can
// leave the WAL unflushed.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain and mounts every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// Router exposes the mounted handler tree, primarily for tests that drive
// the API through httptest without a listening socket.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself on
// graceful shutdown; callers that never Start (tests) use Close directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and the route tree.
//
// ROUTE MAP:
//
//	GET    /api/health                            public
//	POST   /api/auth/login                        public
//	POST   /api/auth/register                     admin
//	GET    /api/auth/profile                      any authenticated
//	PUT    /api/auth/profile                      any authenticated
//	GET    /api/auth/users                        admin
//	GET    /api/students                          faculty+
//	GET    /api/students/stats/overview           faculty+
//	GET    /api/students/{id}                     faculty+
//	POST   /api/students                          admin
//	PUT    /api/students/{id}                     admin
//	DELETE /api/students/{id}                     admin
//	POST   /api/students/{id}/grades              faculty+
//	PUT    /api/students/{id}/grades/{gradeId}    faculty+
//	DELETE /api/students/{id}/grades/{gradeId}    faculty+
//
// The role requirements are enforced in the service layer; RequireAuth only
// establishes WHO is calling. Middleware order matters — each Use wraps
// everything registered after it.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	studentService := service.NewStudentService(s.db, s.logger)
	authService := service.NewAuthService(s.db, auth.NewPasswordService(), tokens, s.logger)

	studentHandler := handler.NewStudentHandler(studentService)
	authHandler := handler.NewAuthHandler(authService)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/register", authHandler.Register)
				r.Get("/profile", authHandler.Profile)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Get("/users", authHandler.Users)
			})
		})

		r.Route("/students", func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/", studentHandler.List)
			r.Post("/", studentHandler.Create)
			// Registered before /{id} so "stats" is never read as one.
			r.Get("/stats/overview", studentHandler.Stats)
			r.Get("/{id}", studentHandler.Get)
			r.Put("/{id}", studentHandler.Update)
			r.Delete("/{id}", studentHandler.Delete)

			r.Post("/{id}/grades", studentHandler.AddGrade)
			r.Put("/{id}/grades/{gradeId}", studentHandler.UpdateGrade)
			r.Delete("/{id}/grades/{gradeId}", studentHandler.DeleteGrade)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// cap), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.Int("port", s.config.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
