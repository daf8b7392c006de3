package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"clientflow/internal/platform/config"
)

func New(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL
	if strings.HasPrefix(dsn, "file:") {
		dsn = dsn[5:]
	}
	// Cross-table integrity (assignments, logs, reports) depends on FK
	// enforcement being on for every connection.
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	} else if !strings.Contains(dsn, "_foreign_keys") {
		dsn += "&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
