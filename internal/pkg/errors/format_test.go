package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func constraintErr(code sqlite3.ErrNoExtended) sqlite3.Error {
	return sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: code,
	}
}

func TestFormat_ConstraintClasses(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{constraintErr(sqlite3.ErrConstraintUnique), MsgDuplicate},
		{constraintErr(sqlite3.ErrConstraintPrimaryKey), MsgDuplicate},
		{constraintErr(sqlite3.ErrConstraintForeignKey), MsgMissingRef},
		{constraintErr(sqlite3.ErrConstraintNotNull), MsgMissingField},
		{constraintErr(sqlite3.ErrConstraintCheck), MsgBadValue},
	}

	for _, tc := range cases {
		if got := Format(tc.err); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestFormat_WrappedConstraint(t *testing.T) {
	wrapped := fmt.Errorf("insert failed: %w", constraintErr(sqlite3.ErrConstraintUnique))
	if got := Format(wrapped); got != MsgDuplicate {
		t.Errorf("Wrapped constraint formatted as %q", got)
	}
}

func TestFormat_NetworkKeywords(t *testing.T) {
	for _, msg := range []string{
		"dial tcp 10.0.0.1:443: connection refused",
		"read tcp: connection reset by peer",
		"context deadline exceeded: timeout",
		"lookup api.internal: no such host",
	} {
		if got := Format(errors.New(msg)); got != MsgNetwork {
			t.Errorf("Format(%q) = %q, want network message", msg, got)
		}
	}
}

func TestFormat_PassthroughAndFallback(t *testing.T) {
	if got := Format(errors.New("week_start_date must be a Monday")); got != "week_start_date must be a Monday" {
		t.Errorf("Plain error should pass through, got %q", got)
	}
	if got := Format(nil); got != MsgFallback {
		t.Errorf("nil should yield fallback, got %q", got)
	}
	if got := Format(errors.New("")); got != MsgFallback {
		t.Errorf("Empty message should yield fallback, got %q", got)
	}
}

func TestIsDuplicateAndIsForeignKey(t *testing.T) {
	if !IsDuplicate(constraintErr(sqlite3.ErrConstraintUnique)) {
		t.Error("unique violation not detected as duplicate")
	}
	if IsDuplicate(errors.New("something else")) {
		t.Error("plain error misdetected as duplicate")
	}
	if !IsForeignKey(constraintErr(sqlite3.ErrConstraintForeignKey)) {
		t.Error("fk violation not detected")
	}
	if IsForeignKey(constraintErr(sqlite3.ErrConstraintUnique)) {
		t.Error("unique violation misdetected as fk")
	}
}
