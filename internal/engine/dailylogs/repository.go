package dailylogs

import (
	"database/sql"
	"strings"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const logColumns = `id, assignment_id, employee_id, log_date, metrics, notes, status, submitted_at, created_at, updated_at`

func (r *Repository) Create(l *Log) error {
	_, err := r.db.Exec(`
		INSERT INTO daily_task_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.AssignmentID, l.EmployeeID, l.LogDate, l.Metrics, l.Notes, l.Status,
		l.SubmittedAt, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *Repository) Update(l *Log) error {
	_, err := r.db.Exec(`
		UPDATE daily_task_logs
		SET metrics = ?, notes = ?, status = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?
	`, l.Metrics, l.Notes, l.Status, l.SubmittedAt, l.UpdatedAt, l.ID)
	return err
}

func (r *Repository) GetByAssignmentAndDate(assignmentID, logDate string) (*Log, error) {
	l, err := scanLog(r.db.QueryRow(`
		SELECT `+logColumns+` FROM daily_task_logs
		WHERE assignment_id = ? AND log_date = ?
	`, assignmentID, logDate))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// ListForDate fetches the logs for all given assignment ids on one date in a
// single query.
func (r *Repository) ListForDate(assignmentIDs []string, logDate string) ([]*Log, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(assignmentIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(assignmentIDs)+1)
	for _, id := range assignmentIDs {
		args = append(args, id)
	}
	args = append(args, logDate)

	rows, err := r.db.Query(`
		SELECT `+logColumns+` FROM daily_task_logs
		WHERE assignment_id IN (`+placeholders+`) AND log_date = ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanLog(s interface {
	Scan(dest ...interface{}) error
}) (*Log, error) {
	l := &Log{}
	err := s.Scan(&l.ID, &l.AssignmentID, &l.EmployeeID, &l.LogDate, &l.Metrics,
		&l.Notes, &l.Status, &l.SubmittedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}
