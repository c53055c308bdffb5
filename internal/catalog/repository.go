package catalog

import (
	"database/sql"
	"fmt"

	"github.com/quangdle/anistream/internal/models"
)

type AnimeRepository struct {
	db *sql.DB
}

func NewAnimeRepository(db *sql.DB) *AnimeRepository {
	return &AnimeRepository{db: db}
}

const animeColumns = `id, title, description, type, status, release_year, rating,
       duration, cover_image, banner_image, featured, created_at, updated_at`

func scanAnime(row interface{ Scan(...interface{}) error }) (models.Anime, error) {
	var (
		a           models.Anime
		description sql.NullString
		rating      sql.NullFloat64
		duration    sql.NullString
		cover       sql.NullString
		banner      sql.NullString
		featured    sql.NullBool
	)
	err := row.Scan(&a.ID, &a.Title, &description, &a.Type, &a.Status, &a.ReleaseYear,
		&rating, &duration, &cover, &banner, &featured, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.Description = description.String
	a.Rating = rating.Float64
	a.Duration = duration.String
	a.CoverImage = cover.String
	a.BannerImage = banner.String
	a.Featured = featured.Bool
	a.Genres = []models.Genre{}
	return a, nil
}

// GetAll returns the full catalog ordered by title, each anime carrying
// its joined genre set.
func (r *AnimeRepository) GetAll() ([]models.Anime, error) {
	rows, err := r.db.Query(`SELECT ` + animeColumns + ` FROM animes ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}
	defer rows.Close()

	out := []models.Anime{}
	index := map[int]int{}
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan anime: %w", err)
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}

	genreRows, err := r.db.Query(`
		SELECT ag.anime_id, g.id, g.name
		FROM anime_genres ag
		JOIN genres g ON g.id = ag.genre_id`)
	if err != nil {
		return nil, fmt.Errorf("list anime genres: %w", err)
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var animeID int
		var g models.Genre
		if err := genreRows.Scan(&animeID, &g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan anime genre: %w", err)
		}
		if i, ok := index[animeID]; ok {
			out[i].Genres = append(out[i].Genres, g)
		}
	}
	return out, genreRows.Err()
}

// Get returns one anime with genres, or nil when the id is unknown.
func (r *AnimeRepository) Get(id int) (*models.Anime, error) {
	row := r.db.QueryRow(`SELECT `+animeColumns+` FROM animes WHERE id=$1`, id)
	a, err := scanAnime(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get anime: %w", err)
	}

	genres, err := r.genresFor(id)
	if err != nil {
		return nil, err
	}
	a.Genres = genres
	return &a, nil
}

func (r *AnimeRepository) genresFor(animeID int) ([]models.Genre, error) {
	rows, err := r.db.Query(`
		SELECT g.id, g.name
		FROM anime_genres ag
		JOIN genres g ON g.id = ag.genre_id
		WHERE ag.anime_id=$1`, animeID)
	if err != nil {
		return nil, fmt.Errorf("get anime genres: %w", err)
	}
	defer rows.Close()

	out := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Create inserts the anime and its genre links in one transaction.
func (r *AnimeRepository) Create(in *AnimeInput) (*models.Anime, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRow(`
		INSERT INTO animes (title, description, type, status, release_year, rating,
		                    duration, cover_image, banner_image, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		in.Title, in.Description, in.Type, in.Status, in.ReleaseYear, in.Rating,
		in.Duration, in.CoverImage, in.BannerImage, in.Featured,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert anime: %w", err)
	}

	if err := linkGenres(tx, id, in.Genres); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.Get(id)
}

// Update replaces the anime row and, when a genre list is supplied,
// replaces the genre set. Returns nil when the id is unknown.
func (r *AnimeRepository) Update(id int, in *AnimeInput) (*models.Anime, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE animes
		SET title=$2, description=$3, type=$4, status=$5, release_year=$6, rating=$7,
		    duration=$8, cover_image=$9, banner_image=$10, featured=$11, updated_at=NOW()
		WHERE id=$1`,
		id, in.Title, in.Description, in.Type, in.Status, in.ReleaseYear, in.Rating,
		in.Duration, in.CoverImage, in.BannerImage, in.Featured)
	if err != nil {
		return nil, fmt.Errorf("update anime: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	if in.Genres != nil {
		if _, err := tx.Exec("DELETE FROM anime_genres WHERE anime_id=$1", id); err != nil {
			return nil, fmt.Errorf("clear anime genres: %w", err)
		}
		if err := linkGenres(tx, id, in.Genres); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.Get(id)
}

func linkGenres(tx *sql.Tx, animeID int, genreIDs []int) error {
	for _, gid := range genreIDs {
		if _, err := tx.Exec(
			"INSERT INTO anime_genres (anime_id, genre_id) VALUES ($1, $2)",
			animeID, gid); err != nil {
			return fmt.Errorf("link genre %d: %w", gid, err)
		}
	}
	return nil
}

// Delete removes the anime; genre links and owned seasons cascade.
func (r *AnimeRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec("DELETE FROM animes WHERE id=$1", id)
	if err != nil {
		return false, fmt.Errorf("delete anime: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *AnimeRepository) Genres() ([]models.Genre, error) {
	rows, err := r.db.Query("SELECT id, name FROM genres ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	out := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
