package repositories

import (
	"database/sql"

	"clientflow/internal/platform/models"
)

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(n *models.ClientNote) error {
	_, err := r.db.Exec(`
		INSERT INTO client_notes (id, client_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.ClientID, n.AuthorID, n.Body, n.CreatedAt,
	)
	return err
}

func (r *NoteRepository) ListByClient(clientID string) ([]*models.ClientNote, error) {
	rows, err := r.db.Query(`
		SELECT id, client_id, author_id, body, created_at
		FROM client_notes WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ClientNote
	for rows.Next() {
		var n models.ClientNote
		if err := rows.Scan(&n.ID, &n.ClientID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NoteRepository) Delete(id, authorID string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM client_notes WHERE id = ? AND author_id = ?", id, authorID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
