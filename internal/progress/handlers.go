package progress

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quangdle/anistream/internal/auth"
	"github.com/quangdle/anistream/internal/httputil"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type progressReq struct {
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// Update serves POST /watch-progress/{episodeId}: upsert by (user, episode).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, episodeID, ok := callerAndEpisode(w, r)
	if !ok {
		return
	}

	var req progressReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Progress < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "Progress must not be negative")
		return
	}

	if err := h.repo.Upsert(id.UserID, episodeID, req.Progress, req.Completed); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update watch progress", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get serves GET /watch-progress/{episodeId}; progress is null when the
// caller has never watched the episode.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, episodeID, ok := callerAndEpisode(w, r)
	if !ok {
		return
	}

	progress, err := h.repo.Get(id.UserID, episodeID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to get watch progress", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

type downloadReq struct {
	Quality string `json:"quality"`
}

// RecordDownload serves POST /downloads/{episodeId}: append-only.
func (h *Handler) RecordDownload(w http.ResponseWriter, r *http.Request) {
	id, episodeID, ok := callerAndEpisode(w, r)
	if !ok {
		return
	}

	var req downloadReq
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Quality) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Quality is required")
		return
	}

	if err := h.repo.RecordDownload(id.UserID, episodeID, req.Quality, clientIP(r)); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to record download", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func callerAndEpisode(w http.ResponseWriter, r *http.Request) (*auth.Identity, int, bool) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, 0, false
	}
	episodeID, err := strconv.Atoi(chi.URLParam(r, "episodeId"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid episode ID")
		return nil, 0, false
	}
	return id, episodeID, true
}

func clientIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
