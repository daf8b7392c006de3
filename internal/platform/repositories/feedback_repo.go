package repositories

import (
	"database/sql"

	"clientflow/internal/platform/models"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(f *models.ReportFeedback) error {
	_, err := r.db.Exec(`
		INSERT INTO report_feedback (id, report_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.ReportID, f.AuthorID, f.Body, f.CreatedAt,
	)
	return err
}

func (r *FeedbackRepository) ListByReport(reportID string) ([]*models.ReportFeedback, error) {
	rows, err := r.db.Query(`
		SELECT id, report_id, author_id, body, created_at
		FROM report_feedback WHERE report_id = ? ORDER BY created_at`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ReportFeedback
	for rows.Next() {
		var f models.ReportFeedback
		if err := rows.Scan(&f.ID, &f.ReportID, &f.AuthorID, &f.Body, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
