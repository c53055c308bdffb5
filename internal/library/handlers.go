package library

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quangdle/anistream/internal/auth"
	"github.com/quangdle/anistream/internal/httputil"
	"github.com/quangdle/anistream/internal/models"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// WatchlistRouter serves /watchlist; mount behind RequireAuth.
func (h *Handler) WatchlistRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listWatchlist)
	r.Post("/{animeId}", h.addWatchlist)
	r.Delete("/{animeId}", h.removeWatchlist)
	return r
}

// FavoritesRouter serves /favorites; mount behind RequireAuth.
func (h *Handler) FavoritesRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listFavorites)
	r.Post("/{animeId}", h.addFavorite)
	r.Delete("/{animeId}", h.removeFavorite)
	return r
}

func (h *Handler) listWatchlist(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.repo.Watchlist, "Failed to fetch watchlist")
}

func (h *Handler) addWatchlist(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.repo.AddToWatchlist, "Failed to add to watchlist")
}

func (h *Handler) removeWatchlist(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.repo.RemoveFromWatchlist, "Failed to remove from watchlist")
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.repo.Favorites, "Failed to fetch favorites")
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.repo.AddToFavorites, "Failed to add to favorites")
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.repo.RemoveFromFavorites, "Failed to remove from favorites")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(int) ([]models.Anime, error), failMsg string) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	animes, err := fetch(id.UserID)
	if err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, failMsg, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": animes})
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(userID, animeID int) error, failMsg string) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	animeID, err := strconv.Atoi(chi.URLParam(r, "animeId"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid anime ID")
		return
	}
	if err := op(id.UserID, animeID); err != nil {
		httputil.WriteErrorDetail(w, http.StatusInternalServerError, failMsg, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
