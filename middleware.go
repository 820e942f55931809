package main

import (
	"context"
	"net/http"
	"strings"

	"agriexpert/models"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// authMiddleware extracts and validates the Bearer token and injects the
// authenticated subject into the request context.
func (a *App) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeErr(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(authz, "Bearer ")
		sub, err := parseJWT(a.cfg.JWTSecret, raw)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route group to the given roles. Must sit inside
// authMiddleware.
func (a *App) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := mustSubject(r)
			for _, role := range roles {
				if sub.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeErr(w, http.StatusForbidden, "insufficient role")
		})
	}
}

// mustSubject returns the authenticated subject from context. Only valid
// behind authMiddleware.
func mustSubject(r *http.Request) authSubject {
	val := r.Context().Value(subjectKey)
	if val == nil {
		return authSubject{}
	}
	return val.(authSubject)
}
