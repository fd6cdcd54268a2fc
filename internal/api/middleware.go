package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rsanthanam/techdesk/internal/sqlite"
)

const sessionCookie = "techdesk_session"

type contextKey string

const userContextKey contextKey = "techdesk.user"

// requireUser resolves the session cookie to an account and stores it on the
// request context. Requests without a valid session get a JSON 401.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, fmt.Errorf("login required"))
			return
		}
		user, err := s.auth.UserForToken(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, fmt.Errorf("session expired"))
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := currentUser(r.Context()); user == nil || !user.IsAdmin {
			writeError(w, http.StatusForbidden, fmt.Errorf("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(ctx context.Context) *sqlite.User {
	user, _ := ctx.Value(userContextKey).(*sqlite.User)
	return user
}
