package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/quangdle/anistream/internal/httputil"
	"github.com/quangdle/anistream/internal/models"
	"github.com/quangdle/anistream/internal/validate"
)

// SessionCookie is the cookie carrying the session token for browser clients.
// API clients may send the same token as a bearer header instead.
const SessionCookie = "session"

type Handler struct {
	repo       *Repo
	sessions   *SessionRepository
	sessionTTL time.Duration
}

func NewHandler(repo *Repo, sessions *SessionRepository, sessionTTL time.Duration) *Handler {
	return &Handler{repo: repo, sessions: sessions, sessionTTL: sessionTTL}
}

type registerReq struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Avatar          string `json:"avatar"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if fields := validate.Struct(req); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	if u, err := h.repo.GetByUsername(req.Username); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to register", err.Error())
		return
	} else if u != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if u, err := h.repo.GetByEmail(req.Email); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to register", err.Error())
		return
	} else if u != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Email already exists")
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to register", err.Error())
		return
	}

	u := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleUser,
		Status:   models.UserActive,
		Avatar:   req.Avatar,
	}
	if err := h.repo.CreateUser(u); err != nil {
		// unique constraints can still fire on a racing register
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to register", err.Error())
		return
	}

	h.openSession(w, r, u, http.StatusCreated)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	u, err := h.repo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to log in", err.Error())
		return
	}
	if u == nil || !ComparePasswords(req.Password, u.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if u.Status == models.UserBlocked {
		httputil.WriteError(w, http.StatusForbidden, "Account is blocked")
		return
	}

	h.openSession(w, r, u, http.StatusOK)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if id == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := h.sessions.Delete(id.SessionID); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to log out", err.Error())
		return
	}
	ClearSessionCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// CurrentUser returns the account bound to the session.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if id == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, err := h.repo.GetByID(id.UserID)
	if err != nil || u == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request, u *models.User, status int) {
	s, err := h.sessions.Create(u.ID, clientIP(r), r.UserAgent(), h.sessionTTL)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to open session", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, status, map[string]interface{}{
		"user":      u,
		"token":     s.Token,
		"expiresAt": s.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func clientIP(r *http.Request) string {
	// RealIP middleware rewrites RemoteAddr when forwarded headers exist
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
