package repositories

import (
	"database/sql"
	"time"

	"clientflow/internal/platform/models"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) BeginTx() (*sql.Tx, error) {
	return r.db.Begin()
}

func (r *ClientRepository) CreateTx(tx *sql.Tx, c *models.Client) error {
	_, err := tx.Exec(`
		INSERT INTO clients (id, name, status, priority, health_status, health_score,
			contact_name, contact_email, contact_phone, weekly_meeting_day, meeting_time,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Status, c.Priority, c.HealthStatus, c.HealthScore,
		c.ContactName, c.ContactEmail, c.ContactPhone, c.WeeklyMeetingDay, c.MeetingTime,
		c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *ClientRepository) UpdateTx(tx *sql.Tx, c *models.Client) error {
	_, err := tx.Exec(`
		UPDATE clients SET name = ?, status = ?, priority = ?, health_status = ?,
			health_score = ?, contact_name = ?, contact_email = ?, contact_phone = ?,
			weekly_meeting_day = ?, meeting_time = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Status, c.Priority, c.HealthStatus, c.HealthScore,
		c.ContactName, c.ContactEmail, c.ContactPhone, c.WeeklyMeetingDay, c.MeetingTime,
		time.Now().Unix(), c.ID)
	return err
}

func (r *ClientRepository) GetByID(id string) (*models.Client, error) {
	c := &models.Client{}
	err := r.db.QueryRow(`
		SELECT id, name, status, priority, health_status, health_score,
			contact_name, contact_email, contact_phone, weekly_meeting_day, meeting_time,
			created_at, updated_at
		FROM clients WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Status, &c.Priority, &c.HealthStatus, &c.HealthScore,
		&c.ContactName, &c.ContactEmail, &c.ContactPhone, &c.WeeklyMeetingDay, &c.MeetingTime,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) List(status string) ([]*models.Client, error) {
	query := `
		SELECT id, name, status, priority, health_status, health_score,
			contact_name, contact_email, contact_phone, weekly_meeting_day, meeting_time,
			created_at, updated_at
		FROM clients
	`
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c := &models.Client{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.Priority, &c.HealthStatus,
			&c.HealthScore, &c.ContactName, &c.ContactEmail, &c.ContactPhone,
			&c.WeeklyMeetingDay, &c.MeetingTime, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Delete cascades to client_services, client_assignments and dependents via
// FK constraints.
func (r *ClientRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM clients WHERE id = ?`, id)
	return err
}

func (r *ClientRepository) EnabledServiceSlugs(clientID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT s.slug FROM client_services cs
		JOIN services s ON s.id = cs.service_id
		WHERE cs.client_id = ? ORDER BY s.slug
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// ReplaceServicesTx swaps the client's enabled-service set inside the caller's
// transaction so a partial failure cannot leave the set half-written.
func (r *ClientRepository) ReplaceServicesTx(tx *sql.Tx, clientID string, serviceIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM client_services WHERE client_id = ?`, clientID); err != nil {
		return err
	}
	for _, serviceID := range serviceIDs {
		if _, err := tx.Exec(`
			INSERT INTO client_services (client_id, service_id) VALUES (?, ?)
		`, clientID, serviceID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ClientRepository) ServiceEnabledTx(tx *sql.Tx, clientID, serviceID string) (bool, error) {
	var enabled bool
	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM client_services WHERE client_id = ? AND service_id = ?)
	`, clientID, serviceID).Scan(&enabled)
	return enabled, err
}

type ServiceRepository struct {
	db *sql.DB
}

func NewServiceRepository(db *sql.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) List() ([]*models.Service, error) {
	rows, err := r.db.Query(`SELECT id, slug, name FROM services ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		s := &models.Service{}
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) GetBySlug(slug string) (*models.Service, error) {
	s := &models.Service{}
	err := r.db.QueryRow(`SELECT id, slug, name FROM services WHERE slug = ?`, slug).
		Scan(&s.ID, &s.Slug, &s.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}
