package repositories

import (
	"database/sql"
	"time"

	"clientflow/internal/platform/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	_, err := r.db.Exec(`
		INSERT INTO notifications (id, user_id, kind, body, read_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Kind, n.Body, n.ReadAt, n.CreatedAt,
	)
	return err
}

func (r *NotificationRepository) ListByUser(userID string, unreadOnly bool) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, kind, body, read_at, created_at
		FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var (
			n      models.Notification
			readAt sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Body, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Int64
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead only touches the caller's own rows.
func (r *NotificationRepository) MarkRead(id, userID string) error {
	_, err := r.db.Exec(
		"UPDATE notifications SET read_at = ? WHERE id = ? AND user_id = ? AND read_at IS NULL",
		time.Now().Unix(), id, userID,
	)
	return err
}

func (r *NotificationRepository) MarkAllRead(userID string) error {
	_, err := r.db.Exec(
		"UPDATE notifications SET read_at = ? WHERE user_id = ? AND read_at IS NULL",
		time.Now().Unix(), userID,
	)
	return err
}
