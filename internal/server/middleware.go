package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Identity is the per-request session state: either anonymous or an
// authenticated user carried over from a verified token.
type Identity struct {
	UserID   int64
	Username string
	LoggedIn bool
}

func anonymous() Identity { return Identity{} }

func authenticated(userID int64, username string) Identity {
	return Identity{UserID: userID, Username: username, LoggedIn: true}
}

type contextKey int

const identityKey contextKey = iota

func identityFrom(ctx context.Context) Identity {
	if ident, ok := ctx.Value(identityKey).(Identity); ok {
		return ident
	}
	return anonymous()
}

// withSession resolves the session cookie into an Identity and stores it in
// the request context. Any failure (no cookie, bad signature, expired)
// degrades silently to anonymous; this middleware never writes a response.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := anonymous()
		if cookie, err := r.Cookie(s.CookieName); err == nil {
			if claims, err := s.Tokens.Verify(cookie.Value); err == nil {
				ident = authenticated(claims.UserID, claims.Username)
			}
		}
		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSession redirects anonymous requests to the root instead of running
// the handler.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !identityFrom(r.Context()).LoggedIn {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// logRequests writes one line per request with a fresh request ID.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.Logger.Info("request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
