package taskflow

import (
	"database/sql"
	"time"

	"clientflow/internal/platform/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const taskColumns = `id, assigned_to, created_by, client_id, title, priority, due_date,
	status, remarks, completed_at, created_at, updated_at`

func (r *Repository) Create(t *models.Task) error {
	_, err := r.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.AssignedTo, t.CreatedBy, nullable(t.ClientID), t.Title, t.Priority,
		nullable(t.DueDate), t.Status, t.Remarks, t.CompletedAt, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *Repository) GetByID(id string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *Repository) SetStatus(id, status string, completedAt *int64) error {
	_, err := r.db.Exec(`
		UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?
	`, status, completedAt, time.Now().Unix(), id)
	return err
}

func (r *Repository) SetRemarks(id, remarks string) error {
	_, err := r.db.Exec(`
		UPDATE tasks SET remarks = ?, updated_at = ? WHERE id = ?
	`, remarks, time.Now().Unix(), id)
	return err
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func (r *Repository) ListByAssignee(employeeID string) ([]*models.Task, error) {
	return r.list(`SELECT `+taskColumns+` FROM tasks WHERE assigned_to = ?
		ORDER BY status, due_date IS NULL, due_date, created_at DESC`, employeeID)
}

func (r *Repository) ListAll() ([]*models.Task, error) {
	return r.list(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`)
}

func (r *Repository) list(query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(s interface {
	Scan(dest ...interface{}) error
}) (*models.Task, error) {
	t := &models.Task{}
	var clientID, dueDate sql.NullString
	err := s.Scan(&t.ID, &t.AssignedTo, &t.CreatedBy, &clientID, &t.Title, &t.Priority,
		&dueDate, &t.Status, &t.Remarks, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ClientID = clientID.String
	t.DueDate = dueDate.String
	return t, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
