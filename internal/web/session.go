// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskLight Contributors

package web

import (
	"context"
	"net/http"

	"github.com/tasklight/tasklight/internal/auth"
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "auth"

type contextKey int

const userContextKey contextKey = iota

// CurrentUser returns the authenticated user stored in ctx by the
// session middleware, or nil outside a protected route.
func CurrentUser(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userContextKey).(*auth.User)
	return user
}

func withUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// sessionCookie builds the auth cookie for a freshly issued token.
// maxAge is in seconds; a negative value expires the cookie.
func sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// requireSession resolves the auth cookie to a user and stores it in the
// request context. Requests without a valid session are redirected to
// the login page, expired cookie included.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		user, err := s.auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			http.SetCookie(w, sessionCookie("", -1))
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// optionalSession resolves the auth cookie when present but never
// redirects. Public pages use it to show the logged-in navigation.
func (s *Server) optionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}
