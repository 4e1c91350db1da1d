// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/tasklight/tasklight/internal/auth"
	"github.com/tasklight/tasklight/internal/task"
	"github.com/tasklight/tasklight/pkg/errutil"
)

// pageData is the single payload passed to every template.
type pageData struct {
	Title    string
	Invalid  bool
	User     *auth.User
	Tasks    []*task.Task
	Username string
	Email    string
	Name     string
}

func (s *Server) countRegistration(status string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home.html", &pageData{
		Title: "Home",
		User:  CurrentUser(r.Context()),
	})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register.html", &pageData{
		Title: "Register",
		User:  CurrentUser(r.Context()),
	})
}

// handleRegister creates an account. Success redirects to the login
// page without starting a session; the new user still has to log in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	name := r.PostFormValue("name")
	password := r.PostFormValue("password")

	_, err := s.auth.Register(r.Context(), username, email, name, password)
	if err != nil {
		s.countRegistration("failure")
		errutil.LogError(s.logger, "registration failed", err)
		s.render(w, http.StatusBadRequest, "register.html", &pageData{
			Title:    "Register",
			Invalid:  true,
			Username: username,
			Email:    email,
			Name:     name,
		})
		return
	}

	s.countRegistration("success")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", &pageData{
		Title: "Log in",
		User:  CurrentUser(r.Context()),
	})
}

// handleLogin verifies credentials and sets the session cookie. Unknown
// username and wrong password produce the same response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		s.countLogin("failure")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			errutil.LogError(s.logger, "login failed", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		s.render(w, http.StatusUnauthorized, "login.html", &pageData{
			Title:    "Log in",
			Invalid:  true,
			Username: username,
		})
		return
	}

	s.countLogin("success")
	http.SetCookie(w, sessionCookie(token, int(s.auth.SessionTTL().Seconds())))
	http.Redirect(w, r, "/todo", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookie("", -1))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	tasks, err := s.tasks.List(r.Context(), user.ID)
	if err != nil {
		errutil.LogError(s.logger, "task list failed", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "todo.html", &pageData{
		Title: "Tasks",
		User:  user,
		Tasks: tasks,
	})
}

func (s *Server) handleTaskAdd(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if _, err := s.tasks.Add(r.Context(), user.ID, r.PostFormValue("text")); err != nil {
		if !errors.Is(err, task.ErrInvalidTask) {
			errutil.LogError(s.logger, "task add failed", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		tasks, listErr := s.tasks.List(r.Context(), user.ID)
		if listErr != nil {
			errutil.LogError(s.logger, "task list failed", listErr)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		s.render(w, http.StatusBadRequest, "todo.html", &pageData{
			Title:   "Tasks",
			Invalid: true,
			User:    user,
			Tasks:   tasks,
		})
		return
	}

	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())

	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.tasks.Remove(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		errutil.LogError(s.logger, "task delete failed", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}
