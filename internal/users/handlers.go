package users

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quangdle/anistream/internal/auth"
	"github.com/quangdle/anistream/internal/httputil"
	"github.com/quangdle/anistream/internal/models"
)

type Handler struct {
	repo     *Repository
	sessions *auth.SessionRepository
}

func NewHandler(repo *Repository, sessions *auth.SessionRepository) *Handler {
	return &Handler{repo: repo, sessions: sessions}
}

// List serves GET /users (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List()
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch users", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

type updateUserReq struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// Update serves PATCH /users/{id} (admin): role and/or status.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	var req updateUserReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var role *models.UserRole
	if req.Role != nil {
		v := models.UserRole(*req.Role)
		if v != models.RoleUser && v != models.RoleManager && v != models.RoleAdmin {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		role = &v
	}
	var status *models.UserStatus
	if req.Status != nil {
		v := models.UserStatus(*req.Status)
		if v != models.UserActive && v != models.UserBlocked {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		status = &v
	}

	user, err := h.repo.UpdateRoleStatus(id, role, status)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update user", err.Error())
		return
	}
	if user == nil {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Delete serves DELETE /users/{id} (admin). The caller may not delete
// their own account here; that goes through DELETE /user/account.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFromContext(r.Context())
	if caller == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if caller.UserID == id {
		httputil.WriteError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	ok, err := h.repo.Delete(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete user", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sessions serves GET /user-sessions (admin); userId defaults to the caller.
func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFromContext(r.Context())
	if caller == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID := caller.UserID
	if v := r.URL.Query().Get("userId"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			userID = parsed
		}
	}

	sessions, err := h.sessions.ListForUser(userID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch user sessions", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessions)
}

// DeleteSession serves DELETE /user-sessions/{id} (admin).
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := h.sessions.Delete(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete session", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateProfileReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfile serves PATCH /user/profile, scoped to the caller.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFromContext(r.Context())
	if caller == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateProfileReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Username and email are required")
		return
	}

	if req.Username != caller.Username {
		existing, err := h.repo.GetByUsername(req.Username)
		if err != nil {
			httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update profile", err.Error())
			return
		}
		if existing != nil {
			httputil.WriteError(w, http.StatusBadRequest, "Username already exists")
			return
		}
	}

	user, err := h.repo.UpdateProfile(caller.UserID, req.Username, req.Email)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update profile", err.Error())
		return
	}
	if user == nil {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdatePassword serves PATCH /user/password; the current password must
// verify before the new one is accepted.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFromContext(r.Context())
	if caller == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updatePasswordReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		httputil.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := h.repo.Get(caller.UserID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update password", err.Error())
		return
	}
	if user == nil {
		httputil.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if !auth.ComparePasswords(req.CurrentPassword, user.Password) {
		httputil.WriteError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update password", err.Error())
		return
	}
	if err := h.repo.UpdatePassword(caller.UserID, hashed); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update password", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// DeleteAccount serves DELETE /user/account: removes the caller's account
// and everything it owns, then ends the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFromContext(r.Context())
	if caller == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ok, err := h.repo.Delete(caller.UserID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete account", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "User not found or could not be deleted")
		return
	}

	// the session row is already gone via cascade
	auth.ClearSessionCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
