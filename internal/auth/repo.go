package auth

import (
	"database/sql"
	"fmt"

	"github.com/quangdle/anistream/internal/models"
)

// Repo covers the user lookups the auth flows need. Everything else
// about user rows lives in the users package.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateUser(u *models.User) error {
	return r.db.QueryRow(`
		INSERT INTO users (username, email, password, role, status, avatar)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at`,
		u.Username, u.Email, u.Password, u.Role, u.Status, u.Avatar,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *Repo) GetByUsername(username string) (*models.User, error) {
	return r.getUser("username=$1", username)
}

func (r *Repo) GetByEmail(email string) (*models.User, error) {
	return r.getUser("email=$1", email)
}

func (r *Repo) GetByID(id int) (*models.User, error) {
	return r.getUser("id=$1", id)
}

func (r *Repo) getUser(where string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	var avatar sql.NullString
	err := r.db.QueryRow(`
		SELECT id, username, email, password, role, status, avatar, created_at
		FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.Status, &avatar, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Avatar = avatar.String
	return u, nil
}
