package users

import (
	"database/sql"
	"fmt"

	"github.com/quangdle/anistream/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = "id, username, email, password, role, status, avatar, created_at"

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	var avatar sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.Status, &avatar, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	u.Avatar = avatar.String
	return u, nil
}

func (r *Repository) List() ([]models.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) Get(id int) (*models.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id=$1", id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetByUsername(username string) (*models.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username=$1", username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

// UpdateRoleStatus changes role and/or status; nil fields are left as-is.
// Returns nil when the id is unknown.
func (r *Repository) UpdateRoleStatus(id int, role *models.UserRole, status *models.UserStatus) (*models.User, error) {
	res, err := r.db.Exec(`
		UPDATE users
		SET role = COALESCE($2, role), status = COALESCE($3, status)
		WHERE id=$1`,
		id, roleArg(role), statusArg(status))
	if err != nil {
		return nil, fmt.Errorf("update user role/status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.Get(id)
}

func roleArg(r *models.UserRole) interface{} {
	if r == nil {
		return nil
	}
	return string(*r)
}

func statusArg(s *models.UserStatus) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

// UpdateProfile changes username and email. Returns nil when the id is unknown.
func (r *Repository) UpdateProfile(id int, username, email string) (*models.User, error) {
	res, err := r.db.Exec("UPDATE users SET username=$2, email=$3 WHERE id=$1", id, username, email)
	if err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.Get(id)
}

func (r *Repository) UpdatePassword(id int, hashed string) error {
	_, err := r.db.Exec("UPDATE users SET password=$2 WHERE id=$1", id, hashed)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

// Delete removes the user atomically; watchlist, favorites, watch
// progress, downloads and sessions go with it via ON DELETE CASCADE.
func (r *Repository) Delete(id int) (bool, error) {
	res, err := r.db.Exec("DELETE FROM users WHERE id=$1", id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
