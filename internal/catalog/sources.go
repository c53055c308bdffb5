package catalog

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quangdle/anistream/internal/httputil"
	"github.com/quangdle/anistream/internal/models"
	"github.com/quangdle/anistream/internal/validate"
)

type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) ListByEpisode(episodeID int) ([]models.VideoSource, error) {
	rows, err := r.db.Query(`
		SELECT id, episode_id, quality, url, is_downloadable
		FROM video_sources WHERE episode_id=$1`, episodeID)
	if err != nil {
		return nil, fmt.Errorf("list video sources: %w", err)
	}
	defer rows.Close()

	out := []models.VideoSource{}
	for rows.Next() {
		var s models.VideoSource
		if err := rows.Scan(&s.ID, &s.EpisodeID, &s.Quality, &s.URL, &s.IsDownloadable); err != nil {
			return nil, fmt.Errorf("scan video source: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SourceRepository) Create(in *SourceInput) (*models.VideoSource, error) {
	s := &models.VideoSource{
		EpisodeID:      in.EpisodeID,
		Quality:        in.Quality,
		URL:            in.URL,
		IsDownloadable: in.IsDownloadable,
	}
	err := r.db.QueryRow(`
		INSERT INTO video_sources (episode_id, quality, url, is_downloadable)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		in.EpisodeID, in.Quality, in.URL, in.IsDownloadable,
	).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("insert video source: %w", err)
	}
	return s, nil
}

func (r *SourceRepository) Update(id int, in *SourceInput) (*models.VideoSource, error) {
	res, err := r.db.Exec(`
		UPDATE video_sources
		SET episode_id=$2, quality=$3, url=$4, is_downloadable=$5
		WHERE id=$1`,
		id, in.EpisodeID, in.Quality, in.URL, in.IsDownloadable)
	if err != nil {
		return nil, fmt.Errorf("update video source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &models.VideoSource{
		ID:             id,
		EpisodeID:      in.EpisodeID,
		Quality:        in.Quality,
		URL:            in.URL,
		IsDownloadable: in.IsDownloadable,
	}, nil
}

func (r *SourceRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec("DELETE FROM video_sources WHERE id=$1", id)
	if err != nil {
		return false, fmt.Errorf("delete video source: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type SourceInput struct {
	EpisodeID      int    `json:"episodeId" validate:"required"`
	Quality        string `json:"quality" validate:"required"`
	URL            string `json:"url" validate:"required,url"`
	IsDownloadable bool   `json:"isDownloadable"`
}

type SourceHandler struct {
	repo     *SourceRepository
	episodes *EpisodeRepository
}

func NewSourceHandler(repo *SourceRepository, episodes *EpisodeRepository) *SourceHandler {
	return &SourceHandler{repo: repo, episodes: episodes}
}

// ListByEpisode serves GET /episodes/{episodeId}/video-sources.
func (h *SourceHandler) ListByEpisode(w http.ResponseWriter, r *http.Request) {
	episodeID, err := strconv.Atoi(chi.URLParam(r, "episodeId"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []models.VideoSource{}})
		return
	}
	sources, err := h.repo.ListByEpisode(episodeID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch video sources", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": sources})
}

// Create verifies the referenced episode exists before inserting.
func (h *SourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in SourceInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	episode, err := h.episodes.Get(in.EpisodeID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to create video source", err.Error())
		return
	}
	if episode == nil {
		httputil.WriteErrorDetail(w, http.StatusBadRequest, "Failed to create video source",
			fmt.Sprintf("Episode with ID %d does not exist", in.EpisodeID))
		return
	}

	source, err := h.repo.Create(&in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to create video source", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, source)
}

func (h *SourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Video source not found")
		return
	}
	var in SourceInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	source, err := h.repo.Update(id, &in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update video source", err.Error())
		return
	}
	if source == nil {
		httputil.WriteError(w, http.StatusNotFound, "Video source not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, source)
}

func (h *SourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Video source not found")
		return
	}
	ok, err := h.repo.Delete(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete video source", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Video source not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
