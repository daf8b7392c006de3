package audit

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Logger records user actions in activity_logs. Writes happen off the
// request path; a failed insert is logged and dropped rather than failing
// the action it describes.
type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Record(userID, action, resourceType, resourceID, ipAddress string, metadata map[string]interface{}) {
	metaJSON, _ := json.Marshal(metadata)
	if metadata == nil {
		metaJSON = []byte("{}")
	}

	id := "act_" + uuid.NewString()
	createdAt := time.Now().Unix()

	go func() {
		_, err := l.db.Exec(`
			INSERT INTO activity_logs (id, user_id, action, resource_type, resource_id, metadata, ip_address, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, userID, action, resourceType, resourceID, string(metaJSON), ipAddress, createdAt)
		if err != nil {
			log.Error().Err(err).Str("action", action).Msg("activity log insert failed")
		}
	}()
}
