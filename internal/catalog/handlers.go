package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quangdle/anistream/internal/httputil"
	"github.com/quangdle/anistream/internal/validate"
)

const autocompleteLimit = 5

type Handler struct {
	repo *AnimeRepository
}

func NewHandler(repo *AnimeRepository) *Handler {
	return &Handler{repo: repo}
}

// AnimeInput is the create/update payload for a catalog entry. Genres is
// the full set of genre ids to associate.
type AnimeInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" validate:"required,oneof=TV Movie OVA Special"`
	Status      string  `json:"status" validate:"required,oneof=Ongoing Completed Upcoming"`
	ReleaseYear int     `json:"releaseYear" validate:"required,gte=1900,lte=2100"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
	Duration    string  `json:"duration"`
	CoverImage  string  `json:"coverImage"`
	BannerImage string  `json:"bannerImage"`
	Featured    bool    `json:"featured"`
	Genres      []int   `json:"genres"`
}

// Search is the autocomplete endpoint: title-only matching ranked by
// relevance. Queries shorter than two characters return no results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = autocompleteLimit
	}

	if len(query) < 2 {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []struct{}{}})
		return
	}

	all, err := h.repo.GetAll()
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to search animes", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": SearchByTitle(all, query, limit),
	})
}

// List runs the query pipeline over a fresh catalog snapshot.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ParamsFromQuery(r.URL.Query())

	all, err := h.repo.GetAll()
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch animes", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, Query(all, params))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Anime not found")
		return
	}
	anime, err := h.repo.Get(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch anime", err.Error())
		return
	}
	if anime == nil {
		httputil.WriteError(w, http.StatusNotFound, "Anime not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, anime)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in AnimeInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	anime, err := h.repo.Create(&in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to create anime", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, anime)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Anime not found")
		return
	}

	var in AnimeInput
	if err := httputil.ReadJSON(r, &in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate.Struct(in); fields != nil {
		httputil.WriteFieldErrors(w, fields)
		return
	}

	anime, err := h.repo.Update(id, &in)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to update anime", err.Error())
		return
	}
	if anime == nil {
		httputil.WriteError(w, http.StatusNotFound, "Anime not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, anime)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Anime not found")
		return
	}
	ok, err := h.repo.Delete(id)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to delete anime", err.Error())
		return
	}
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Anime not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.repo.Genres()
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, "Failed to fetch genres", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": genres})
}
