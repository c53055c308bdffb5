package library

import (
	"database/sql"
	"fmt"

	"github.com/quangdle/anistream/internal/models"
)

// Repository holds a user's saved-anime lists: the watchlist and the
// favorites set. Both are keyed by (user, anime) and de-duplicated at the
// database level.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Watchlist(userID int) ([]models.Anime, error) {
	return r.listAnimes("watchlist", userID)
}

// AddToWatchlist is a no-op when the entry already exists.
func (r *Repository) AddToWatchlist(userID, animeID int) error {
	return r.add("watchlist", userID, animeID)
}

func (r *Repository) RemoveFromWatchlist(userID, animeID int) error {
	return r.remove("watchlist", userID, animeID)
}

func (r *Repository) Favorites(userID int) ([]models.Anime, error) {
	return r.listAnimes("favorites", userID)
}

// AddToFavorites is a no-op when the entry already exists.
func (r *Repository) AddToFavorites(userID, animeID int) error {
	return r.add("favorites", userID, animeID)
}

func (r *Repository) RemoveFromFavorites(userID, animeID int) error {
	return r.remove("favorites", userID, animeID)
}

func (r *Repository) add(table string, userID, animeID int) error {
	_, err := r.db.Exec(
		"INSERT INTO "+table+" (user_id, anime_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, animeID)
	if err != nil {
		return fmt.Errorf("add to %s: %w", table, err)
	}
	return nil
}

func (r *Repository) remove(table string, userID, animeID int) error {
	_, err := r.db.Exec(
		"DELETE FROM "+table+" WHERE user_id=$1 AND anime_id=$2",
		userID, animeID)
	if err != nil {
		return fmt.Errorf("remove from %s: %w", table, err)
	}
	return nil
}

// listAnimes returns the saved animes newest-added first, genres attached.
func (r *Repository) listAnimes(table string, userID int) ([]models.Anime, error) {
	rows, err := r.db.Query(`
		SELECT a.id, a.title, a.description, a.type, a.status, a.release_year, a.rating,
		       a.duration, a.cover_image, a.banner_image, a.featured, a.created_at, a.updated_at
		FROM `+table+` l
		JOIN animes a ON a.id = l.anime_id
		WHERE l.user_id=$1
		ORDER BY l.added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := []models.Anime{}
	index := map[int]int{}
	for rows.Next() {
		var (
			a           models.Anime
			description sql.NullString
			rating      sql.NullFloat64
			duration    sql.NullString
			cover       sql.NullString
			banner      sql.NullString
			featured    sql.NullBool
		)
		if err := rows.Scan(&a.ID, &a.Title, &description, &a.Type, &a.Status, &a.ReleaseYear,
			&rating, &duration, &cover, &banner, &featured, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s anime: %w", table, err)
		}
		a.Description = description.String
		a.Rating = rating.Float64
		a.Duration = duration.String
		a.CoverImage = cover.String
		a.BannerImage = banner.String
		a.Featured = featured.Bool
		a.Genres = []models.Genre{}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	genreRows, err := r.db.Query(`
		SELECT ag.anime_id, g.id, g.name
		FROM `+table+` l
		JOIN anime_genres ag ON ag.anime_id = l.anime_id
		JOIN genres g ON g.id = ag.genre_id
		WHERE l.user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s genres: %w", table, err)
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var animeID int
		var g models.Genre
		if err := genreRows.Scan(&animeID, &g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan %s genre: %w", table, err)
		}
		if i, ok := index[animeID]; ok {
			out[i].Genres = append(out[i].Genres, g)
		}
	}
	return out, genreRows.Err()
}
