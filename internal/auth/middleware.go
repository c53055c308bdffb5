package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/quangdle/anistream/internal/httputil"
	"github.com/quangdle/anistream/internal/models"
)

type contextKey string

const contextIdentity contextKey = "identity"

// Identity is the verified account bound to an authenticated request.
type Identity struct {
	UserID    int
	Username  string
	Email     string
	Role      models.UserRole
	SessionID string
}

func (i *Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type Middleware struct {
	sessions *SessionRepository
}

func NewMiddleware(sessions *SessionRepository) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireAuth rejects with 401 unless the request carries a valid,
// non-expired session. On success the resolved Identity is placed in the
// request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		su, err := m.sessions.lookup(token)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if time.Now().After(su.ExpiresAt) {
			m.sessions.Delete(su.SessionID)
			httputil.WriteError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		if su.Status == models.UserBlocked {
			httputil.WriteError(w, http.StatusUnauthorized, "Account is blocked")
			return
		}

		m.sessions.Touch(su.SessionID)

		ctx := context.WithValue(r.Context(), contextIdentity, &Identity{
			UserID:    su.UserID,
			Username:  su.Username,
			Email:     su.Email,
			Role:      su.Role,
			SessionID: su.SessionID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects with 403 unless the authenticated identity has the
// Admin role. Chain it after RequireAuth.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil || !id.IsAdmin() {
			httputil.WriteError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(contextIdentity).(*Identity); ok {
		return v
	}
	return nil
}

// WithIdentity returns a context carrying the given identity; used by tests
// and by handlers invoked outside the middleware chain.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextIdentity, id)
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
