package reports

import (
	"database/sql"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const reportColumns = `
	r.id, r.employee_id, r.client_id, r.service_id, r.week_start_date,
	r.summary, r.achievements, r.blockers, r.next_steps,
	r.is_draft, r.status, r.approval_status, r.created_at, r.updated_at,
	c.name, s.slug
`

const reportJoin = `
	FROM weekly_reports r
	JOIN clients c ON c.id = r.client_id
	JOIN services s ON s.id = r.service_id
`

func (r *Repository) Create(rep *Report) error {
	_, err := r.db.Exec(`
		INSERT INTO weekly_reports (id, employee_id, client_id, service_id, week_start_date,
			summary, achievements, blockers, next_steps, is_draft, status, approval_status,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rep.ID, rep.EmployeeID, rep.ClientID, rep.ServiceID, rep.WeekStartDate,
		rep.Summary, rep.Achievements, rep.Blockers, rep.NextSteps,
		rep.IsDraft, rep.Status, rep.ApprovalStatus, rep.CreatedAt, rep.UpdatedAt)
	return err
}

func (r *Repository) Update(rep *Report) error {
	_, err := r.db.Exec(`
		UPDATE weekly_reports SET summary = ?, achievements = ?, blockers = ?,
			next_steps = ?, is_draft = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, rep.Summary, rep.Achievements, rep.Blockers, rep.NextSteps,
		rep.IsDraft, rep.Status, time.Now().Unix(), rep.ID)
	return err
}

func (r *Repository) SetApproval(id, approvalStatus string) error {
	_, err := r.db.Exec(`
		UPDATE weekly_reports SET approval_status = ?, updated_at = ? WHERE id = ?
	`, approvalStatus, time.Now().Unix(), id)
	return err
}

func (r *Repository) GetByID(id string) (*Report, error) {
	rep, err := scanReport(r.db.QueryRow(`SELECT `+reportColumns+reportJoin+` WHERE r.id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rep, nil
}

func (r *Repository) GetByKey(employeeID, clientID, serviceID, weekStartDate string) (*Report, error) {
	rep, err := scanReport(r.db.QueryRow(`
		SELECT `+reportColumns+reportJoin+`
		WHERE r.employee_id = ? AND r.client_id = ? AND r.service_id = ? AND r.week_start_date = ?
	`, employeeID, clientID, serviceID, weekStartDate))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rep, nil
}

func (r *Repository) ListByEmployee(employeeID string) ([]*Report, error) {
	return r.list(`SELECT `+reportColumns+reportJoin+`
		WHERE r.employee_id = ? ORDER BY r.week_start_date DESC`, employeeID)
}

func (r *Repository) ListApprovedForClient(clientID string) ([]*Report, error) {
	return r.list(`SELECT `+reportColumns+reportJoin+`
		WHERE r.client_id = ? AND r.approval_status = ? AND r.is_draft = 0
		ORDER BY r.week_start_date DESC`, clientID, ApprovalApproved)
}

func (r *Repository) ListPendingApproval() ([]*Report, error) {
	return r.list(`SELECT `+reportColumns+reportJoin+`
		WHERE r.approval_status = ? AND r.is_draft = 0
		ORDER BY r.week_start_date DESC`, ApprovalPending)
}

// DeleteStaleDrafts removes never-submitted drafts older than the cutoff.
func (r *Repository) DeleteStaleDrafts(cutoff int64) (int64, error) {
	res, err := r.db.Exec(`
		DELETE FROM weekly_reports WHERE is_draft = 1 AND updated_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) list(query string, args ...interface{}) ([]*Report, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(s interface {
	Scan(dest ...interface{}) error
}) (*Report, error) {
	rep := &Report{}
	err := s.Scan(&rep.ID, &rep.EmployeeID, &rep.ClientID, &rep.ServiceID, &rep.WeekStartDate,
		&rep.Summary, &rep.Achievements, &rep.Blockers, &rep.NextSteps,
		&rep.IsDraft, &rep.Status, &rep.ApprovalStatus, &rep.CreatedAt, &rep.UpdatedAt,
		&rep.ClientName, &rep.ServiceSlug)
	if err != nil {
		return nil, err
	}
	return rep, nil
}
