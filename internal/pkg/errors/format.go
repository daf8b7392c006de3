package errors

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Canonical user-facing messages for database constraint failures. Every
// constraint class maps to exactly one sentence so callers can surface it
// without inspecting driver internals.
const (
	MsgDuplicate    = "A record with these details already exists."
	MsgMissingRef   = "A referenced record does not exist or is still in use."
	MsgMissingField = "A required field is missing."
	MsgBadValue     = "One of the provided values has an invalid format."
	MsgNetwork      = "Network error. Please check your connection and try again."
	MsgFallback     = "Something went wrong. Please try again."
)

var networkKeywords = []string{
	"connection refused", "connection reset", "timeout", "timed out",
	"no such host", "network is unreachable", "broken pipe", "eof",
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKey reports whether err is a foreign-key violation.
func IsForeignKey(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// Format converts an arbitrary backend error into the single user-facing
// sentence for its class. Unclassified errors pass their message through
// verbatim; a nil or empty error yields the generic fallback.
func Format(err error) string {
	if err == nil {
		return MsgFallback
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return MsgDuplicate
		case sqlite3.ErrConstraintForeignKey:
			return MsgMissingRef
		case sqlite3.ErrConstraintNotNull:
			return MsgMissingField
		case sqlite3.ErrConstraintCheck:
			return MsgBadValue
		}
		if sqliteErr.Code == sqlite3.ErrMismatch {
			return MsgBadValue
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	for _, kw := range networkKeywords {
		if strings.Contains(lower, kw) {
			return MsgNetwork
		}
	}

	if msg == "" {
		return MsgFallback
	}
	return msg
}
