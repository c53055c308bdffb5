package progress

import (
	"database/sql"
	"fmt"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert stores watch progress keyed by (user, episode).
func (r *Repository) Upsert(userID, episodeID, progress int, completed bool) error {
	_, err := r.db.Exec(`
		INSERT INTO watch_progress (user_id, episode_id, progress, completed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, episode_id)
		DO UPDATE SET progress=$3, completed=$4, updated_at=NOW()`,
		userID, episodeID, progress, completed)
	if err != nil {
		return fmt.Errorf("upsert watch progress: %w", err)
	}
	return nil
}

// Get returns the stored progress in seconds, or nil when the user has
// no record for the episode.
func (r *Repository) Get(userID, episodeID int) (*int, error) {
	var progress int
	err := r.db.QueryRow(
		"SELECT progress FROM watch_progress WHERE user_id=$1 AND episode_id=$2",
		userID, episodeID,
	).Scan(&progress)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watch progress: %w", err)
	}
	return &progress, nil
}

// RecordDownload appends a download record; downloads are never updated.
func (r *Repository) RecordDownload(userID, episodeID int, quality, ipAddress string) error {
	_, err := r.db.Exec(`
		INSERT INTO downloads (user_id, episode_id, quality, ip_address, completed)
		VALUES ($1, $2, $3, $4, true)`,
		userID, episodeID, quality, ipAddress)
	if err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}
