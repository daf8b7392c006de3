package repositories

import (
	"database/sql"

	"clientflow/internal/platform/models"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(d *models.SharedDocument) error {
	_, err := r.db.Exec(`
		INSERT INTO shared_documents (id, title, file_name, storage_path, size_bytes, uploaded_by, client_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.FileName, d.StoragePath, d.SizeBytes, d.UploadedBy, nullable(d.ClientID), d.CreatedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(id string) (*models.SharedDocument, error) {
	row := r.db.QueryRow(`
		SELECT id, title, file_name, storage_path, size_bytes, uploaded_by, client_id, created_at
		FROM shared_documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// List returns company-wide documents plus, when clientID is set, the ones
// scoped to that client.
func (r *DocumentRepository) List(clientID string) ([]*models.SharedDocument, error) {
	query := `
		SELECT id, title, file_name, storage_path, size_bytes, uploaded_by, client_id, created_at
		FROM shared_documents WHERE client_id IS NULL`
	args := []interface{}{}
	if clientID != "" {
		query += " OR client_id = ?"
		args = append(args, clientID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SharedDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DocumentRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM shared_documents WHERE id = ?", id)
	return err
}

func scanDocument(s interface {
	Scan(dest ...interface{}) error
}) (*models.SharedDocument, error) {
	var (
		d        models.SharedDocument
		clientID sql.NullString
	)
	err := s.Scan(&d.ID, &d.Title, &d.FileName, &d.StoragePath, &d.SizeBytes, &d.UploadedBy, &clientID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.ClientID = clientID.String
	return &d, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
