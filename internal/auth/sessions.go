package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quangdle/anistream/internal/models"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create opens a fresh session for the user and returns it with its token set.
func (r *SessionRepository) Create(userID int, ipAddress, deviceInfo string, ttl time.Duration) (*models.Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	if deviceInfo == "" {
		deviceInfo = "Unknown"
	}

	s := &models.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		Token:      token,
		IPAddress:  ipAddress,
		DeviceInfo: deviceInfo,
	}
	err = r.db.QueryRow(`
		INSERT INTO user_sessions (id, user_id, token, ip_address, device_info, expires_at)
		VALUES ($1, $2, $3, $4, $5, NOW() + $6 * INTERVAL '1 second')
		RETURNING created_at, last_active, expires_at`,
		s.ID, s.UserID, s.Token, s.IPAddress, s.DeviceInfo, int64(ttl.Seconds()),
	).Scan(&s.CreatedAt, &s.LastActive, &s.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// lookup resolves a token to the session row joined with its user.
func (r *SessionRepository) lookup(token string) (*sessionUser, error) {
	su := &sessionUser{}
	err := r.db.QueryRow(`
		SELECT s.id, s.expires_at, u.id, u.username, u.email, u.role, u.status
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`, token,
	).Scan(&su.SessionID, &su.ExpiresAt, &su.UserID, &su.Username, &su.Email, &su.Role, &su.Status)
	if err != nil {
		return nil, err
	}
	return su, nil
}

type sessionUser struct {
	SessionID string
	ExpiresAt time.Time
	UserID    int
	Username  string
	Email     string
	Role      models.UserRole
	Status    models.UserStatus
}

func (r *SessionRepository) Touch(id string) {
	r.db.Exec("UPDATE user_sessions SET last_active=NOW() WHERE id=$1", id)
}

func (r *SessionRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM user_sessions WHERE id=$1", id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *SessionRepository) ListForUser(userID int) ([]models.Session, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, ip_address, device_info, created_at, last_active, expires_at
		FROM user_sessions WHERE user_id=$1
		ORDER BY last_active DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Session{}
	for rows.Next() {
		var s models.Session
		var device sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.IPAddress, &device,
			&s.CreatedAt, &s.LastActive, &s.ExpiresAt); err != nil {
			return nil, err
		}
		s.DeviceInfo = device.String
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteExpired removes sessions past their expiry; run periodically.
func (r *SessionRepository) DeleteExpired() (int64, error) {
	res, err := r.db.Exec("DELETE FROM user_sessions WHERE expires_at < NOW()")
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
