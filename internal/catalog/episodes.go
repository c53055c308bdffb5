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

type EpisodeRepository struct {
	db *sql.DB
}

func NewEpisodeRepository(db *sql.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

const episodeColumns = "id, season_id, number, title, description, duration, thumbnail"

func scanEpisode(row interface{ Scan(...interface{}) error }) (models.Episode, error) {
	var e models.Episode
	var description, thumbnail sql.NullString
	err := row.Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &description, &e.Duration, &thumbnail)
	if err != nil {
		return e, err
	}
	e.Description = description.String
	e.Thumbnail = thumbnail.String
	return e, nil
}

func (r *EpisodeRepository) ListBySeason(seasonID int) ([]models.Episode, error) {
	rows, err := r.db.Query(
		"SELECT "+episodeColumns+" FROM episodes WHERE season_id=$1 ORDER BY number", seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	out := []models.Episode{}
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EpisodeRepository) Get(id int) (*models.Episode, error) {
	row := r.db.QueryRow("SELECT "+episodeColumns+" FROM episodes WHERE id=$1", id)
	e, err := scanEpisode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return &e, nil
}

func (r *EpisodeRepository) Create(in *EpisodeInput) (*models.Episode, error) {
	e := &models.Episode{
		SeasonID:    in.SeasonID,
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		Thumbnail:   in.Thumbnail,
	}
	err := r.db.QueryRow(`
		INSERT INTO episodes (season_id, number, title, description, duration, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		in.SeasonID, in.Number, in.Title, in.Description, in.Duration, in.Thumbnail,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}
	return e, nil
}

func (r *EpisodeRepository) Update(id int, in *EpisodeInput) (*models.Episode, error) {
	res, err := r.db.Exec(`
		UPDATE episodes
		SET season_id=$2, number=$3, title=$4, description=$5, duration=$6, thumbnail=$7
		WHERE id=$1`,
		id, in.SeasonID, in.Number, in.Title, in.Description, in.Duration, in.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("update episode: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.Get(id)
}

func (r *EpisodeRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec("DELETE FROM episodes WHERE id=$1", id)
	if err != nil {
		return false, fmt.Errorf("delete episode: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type EpisodeInput struct {
	SeasonID    int    `json:"seasonId" validate:"required"`
	Number      int    `json:"number" validate:"required,gte=1"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Duration    string `json:"duration" validate:"required"`
	Thumbnail   string `json:"thumbnail"`
}

type EpisodeHandler struct {
	repo    *EpisodeRepository
	seasons *SeasonRepository
}

func NewEpisodeHandler(repo *EpisodeRepository, seasons *SeasonRepository) *EpisodeHandler {
	return &EpisodeHandler{repo: repo, seasons: seasons}
}

// ListBySeason serves GET /seasons/{seasonId}/episodes.
func (h *EpisodeHandler) ListBySeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.Atoi(chi.URLParam(r, "seasonId"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []models.Episode{}})
		return
	}
	episodes, err := h.repo.ListBySeason(seasonID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch episodes", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": episodes})
}

// Create verifies the referenced season exists before inserting.
func (h *EpisodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in EpisodeInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	season, err := h.seasons.Get(in.SeasonID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to create episode", err.Error())
		return
	}
	if season == nil {
		httputil.WriteErrorDetail(w, http.StatusBadRequest, "Failed to create episode",
			fmt.Sprintf("Season with ID %d does not exist", in.SeasonID))
		return
	}

	episode, err := h.repo.Create(&in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to create episode", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, episode)
}

func (h *EpisodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Episode not found")
		return
	}
	var in EpisodeInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	episode, err := h.repo.Update(id, &in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update episode", err.Error())
		return
	}
	if episode == nil {
		httputil.WriteError(w, http.StatusNotFound, "Episode not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, episode)
}

func (h *EpisodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Episode not found")
		return
	}
	ok, err := h.repo.Delete(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete episode", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Episode not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
