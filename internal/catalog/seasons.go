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

type SeasonRepository struct {
	db *sql.DB
}

func NewSeasonRepository(db *sql.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) ListByAnime(animeID int) ([]models.Season, error) {
	return r.list("WHERE anime_id=$1 ORDER BY number", animeID)
}

func (r *SeasonRepository) ListAll() ([]models.Season, error) {
	return r.list("ORDER BY anime_id, number")
}

func (r *SeasonRepository) list(tail string, args ...interface{}) ([]models.Season, error) {
	rows, err := r.db.Query("SELECT id, anime_id, number, title FROM seasons "+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	out := []models.Season{}
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.ID, &s.AnimeID, &s.Number, &s.Title); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SeasonRepository) Get(id int) (*models.Season, error) {
	s := &models.Season{}
	err := r.db.QueryRow(
		"SELECT id, anime_id, number, title FROM seasons WHERE id=$1", id,
	).Scan(&s.ID, &s.AnimeID, &s.Number, &s.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	return s, nil
}

func (r *SeasonRepository) Create(in *SeasonInput) (*models.Season, error) {
	s := &models.Season{AnimeID: in.AnimeID, Number: in.Number, Title: in.Title}
	err := r.db.QueryRow(
		"INSERT INTO seasons (anime_id, number, title) VALUES ($1, $2, $3) RETURNING id",
		in.AnimeID, in.Number, in.Title,
	).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("insert season: %w", err)
	}
	return s, nil
}

func (r *SeasonRepository) Update(id int, in *SeasonInput) (*models.Season, error) {
	res, err := r.db.Exec(
		"UPDATE seasons SET anime_id=$2, number=$3, title=$4 WHERE id=$1",
		id, in.AnimeID, in.Number, in.Title)
	if err != nil {
		return nil, fmt.Errorf("update season: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &models.Season{ID: id, AnimeID: in.AnimeID, Number: in.Number, Title: in.Title}, nil
}

func (r *SeasonRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec("DELETE FROM seasons WHERE id=$1", id)
	if err != nil {
		return false, fmt.Errorf("delete season: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type SeasonInput struct {
	AnimeID int    `json:"animeId" validate:"required"`
	Number  int    `json:"number" validate:"required,gte=1"`
	Title   string `json:"title" validate:"required"`
}

type SeasonHandler struct {
	repo *SeasonRepository
}

func NewSeasonHandler(repo *SeasonRepository) *SeasonHandler {
	return &SeasonHandler{repo: repo}
}

// ListByAnime serves GET /animes/{animeId}/seasons.
func (h *SeasonHandler) ListByAnime(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.Atoi(chi.URLParam(r, "animeId"))
	if err != nil {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []models.Season{}})
		return
	}
	h.writeList(w, func() ([]models.Season, error) { return h.repo.ListByAnime(animeID) })
}

// List serves GET /seasons, optionally filtered by an animeId query param.
func (h *SeasonHandler) List(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("animeId"); v != "" {
		animeID, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []models.Season{}})
			return
		}
		h.writeList(w, func() ([]models.Season, error) { return h.repo.ListByAnime(animeID) })
		return
	}
	h.writeList(w, h.repo.ListAll)
}

func (h *SeasonHandler) writeList(w http.ResponseWriter, fetch func() ([]models.Season, error)) {
	seasons, err := fetch()
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch seasons", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": seasons})
}

func (h *SeasonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in SeasonInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	season, err := h.repo.Create(&in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to create season", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, season)
}

func (h *SeasonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Season not found")
		return
	}
	var in SeasonInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	season, err := h.repo.Update(id, &in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update season", err.Error())
		return
	}
	if season == nil {
		httputil.WriteError(w, http.StatusNotFound, "Season not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, season)
}

func (h *SeasonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Season not found")
		return
	}
	ok, err := h.repo.Delete(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete season", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Season not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
