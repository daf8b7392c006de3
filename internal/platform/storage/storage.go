package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"clientflow/internal/platform/config"
)

// Store abstracts where uploaded files (report attachments, shared
// documents) live.
type Store interface {
	// Upload persists the file and returns its storage path.
	Upload(ctx context.Context, fileID, filename string, data io.Reader) (string, error)

	// Download opens the file at a storage path.
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes the file at a storage path.
	Delete(ctx context.Context, storagePath string) error
}

func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStore(cfg.LocalPath)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("storage.s3_bucket is required for the s3 backend")
		}
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// storagePathFor namespaces files by id prefix so one directory never grows
// unbounded, and strips path separators out of user-supplied names.
func storagePathFor(fileID, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)

	prefix := fileID
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return fmt.Sprintf("%s/%s_%s%s", prefix, fileID, base, ext)
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
