package repositories

import (
	"database/sql"
	"time"

	"clientflow/internal/platform/models"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(p *models.Profile) error {
	_, err := r.db.Exec(`
		INSERT INTO profiles (id, email, password_hash, full_name, role, status, client_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Email, p.PasswordHash, p.FullName, p.Role, p.Status, p.ClientID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProfileRepository) GetByID(id string) (*models.Profile, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, email, password_hash, full_name, role, status, client_id, last_login_at, created_at, updated_at, deleted_at
		FROM profiles WHERE id = ?
	`, id))
}

func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, email, password_hash, full_name, role, status, client_id, last_login_at, created_at, updated_at, deleted_at
		FROM profiles WHERE email = ?
	`, email))
}

func (r *ProfileRepository) List() ([]*models.Profile, error) {
	rows, err := r.db.Query(`
		SELECT id, email, password_hash, full_name, role, status, client_id, last_login_at, created_at, updated_at, deleted_at
		FROM profiles WHERE deleted_at IS NULL ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) UpdateLastLogin(id string, timestamp int64) error {
	_, err := r.db.Exec(`UPDATE profiles SET last_login_at = ? WHERE id = ?`, timestamp, id)
	return err
}

func (r *ProfileRepository) UpdatePassword(id, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE profiles SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().Unix(), id)
	return err
}

func (r *ProfileRepository) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE profiles SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().Unix(), id)
	return err
}

func (r *ProfileRepository) scanOne(row *sql.Row) (*models.Profile, error) {
	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanProfile(s interface {
	Scan(dest ...interface{}) error
}) (*models.Profile, error) {
	p := &models.Profile{}
	var clientID sql.NullString
	err := s.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Role, &p.Status,
		&clientID, &p.LastLoginAt, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	p.ClientID = clientID.String
	return p, nil
}
