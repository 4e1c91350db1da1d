// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

// Package web serves the TaskLight HTML interface: registration, login,
// and the session-gated task list.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/observability"
	"github.com/tasklight/tasklight/internal/task"
)

// Server is the public HTTP server.
type Server struct {
	addr       string
	auth       *auth.Service
	tasks      *task.Service
	metrics    *observability.Metrics
	logger     *slog.Logger
	tmpl       *template.Template
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the web server. metrics may be nil; auth and task
// services may not.
func NewServer(addr string, authSvc *auth.Service, taskSvc *task.Service, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if authSvc == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("auth service is required")
	}
	if taskSvc == nil {
		return nil, oops.Code("WEB_NIL_DEPENDENCY").Errorf("task service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:    addr,
		auth:    authSvc,
		tasks:   taskSvc,
		metrics: metrics,
		logger:  logger,
		tmpl:    tmpl,
	}

	handler, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.handler = handler

	return s, nil
}

// Handler returns the root http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	static, err := staticHandler()
	if err != nil {
		return nil, err
	}
	r.Handle("/static/*", static)

	r.Group(func(r chi.Router) {
		r.Use(s.optionalSession)
		r.Get("/", s.handleHome)
		r.Get("/register", s.handleRegisterForm)
		r.Post("/register", s.handleRegister)
		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/todo", s.handleTaskList)
		r.Post("/todo", s.handleTaskAdd)
		r.Post("/todo/{id}/delete", s.handleTaskDelete)
	})

	return r, nil
}

// logRequests emits one slog line per request and feeds the request
// counter when metrics are wired.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)

		if s.metrics != nil {
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		}
	})
}

// Start begins serving on the configured address. It returns an error
// channel that receives any serve failure and is closed on shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the listen address, or "" when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
