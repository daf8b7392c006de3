package repositories

import (
	"database/sql"

	"clientflow/internal/platform/models"
)

type AttachmentRepository struct {
	db *sql.DB
}

func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(a *models.ReportAttachment) error {
	_, err := r.db.Exec(`
		INSERT INTO report_attachments (id, report_id, file_name, storage_path, size_bytes, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ReportID, a.FileName, a.StoragePath, a.SizeBytes, a.UploadedBy, a.CreatedAt,
	)
	return err
}

func (r *AttachmentRepository) GetByID(id string) (*models.ReportAttachment, error) {
	var a models.ReportAttachment
	err := r.db.QueryRow(`
		SELECT id, report_id, file_name, storage_path, size_bytes, uploaded_by, created_at
		FROM report_attachments WHERE id = ?`, id,
	).Scan(&a.ID, &a.ReportID, &a.FileName, &a.StoragePath, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByReport(reportID string) ([]*models.ReportAttachment, error) {
	rows, err := r.db.Query(`
		SELECT id, report_id, file_name, storage_path, size_bytes, uploaded_by, created_at
		FROM report_attachments WHERE report_id = ? ORDER BY created_at`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ReportAttachment
	for rows.Next() {
		var a models.ReportAttachment
		if err := rows.Scan(&a.ID, &a.ReportID, &a.FileName, &a.StoragePath, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *AttachmentRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM report_attachments WHERE id = ?", id)
	return err
}
