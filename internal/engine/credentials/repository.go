package credentials

import (
	"database/sql"
	"time"
)

// row is the stored shape: password kept sealed, never as text.
type row struct {
	ID             string
	ClientID       string
	Label          string
	Username       string
	PasswordSealed []byte
	Notes          string
	CreatedAt      int64
	UpdatedAt      int64
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) create(c *row) error {
	_, err := r.db.Exec(`
		INSERT INTO client_credentials (id, client_id, label, username, password_sealed, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.ClientID, c.Label, c.Username, c.PasswordSealed, c.Notes, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *Repository) update(c *row) error {
	_, err := r.db.Exec(`
		UPDATE client_credentials SET label = ?, username = ?, password_sealed = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, c.Label, c.Username, c.PasswordSealed, c.Notes, time.Now().Unix(), c.ID)
	return err
}

func (r *Repository) getByID(id string) (*row, error) {
	c := &row{}
	err := r.db.QueryRow(`
		SELECT id, client_id, label, username, password_sealed, notes, created_at, updated_at
		FROM client_credentials WHERE id = ?
	`, id).Scan(&c.ID, &c.ClientID, &c.Label, &c.Username, &c.PasswordSealed, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *Repository) listByClient(clientID string) ([]*row, error) {
	rows, err := r.db.Query(`
		SELECT id, client_id, label, username, password_sealed, notes, created_at, updated_at
		FROM client_credentials WHERE client_id = ? ORDER BY label
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*row
	for rows.Next() {
		c := &row{}
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Label, &c.Username, &c.PasswordSealed,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM client_credentials WHERE id = ?`, id)
	return err
}

// assignedToClient reports whether the employee holds any assignment for the
// client, the visibility rule for credentials.
func (r *Repository) assignedToClient(employeeID, clientID string) (bool, error) {
	var assigned bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM client_assignments WHERE employee_id = ? AND client_id = ?)
	`, employeeID, clientID).Scan(&assigned)
	return assigned, err
}
