package taskflow

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	schema := `
	CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		assigned_to TEXT NOT NULL,
		created_by TEXT NOT NULL,
		client_id TEXT,
		title TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		due_date TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		remarks TEXT NOT NULL DEFAULT '',
		completed_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *sql.DB) {
	db := setupTestDB(t)
	return NewService(NewRepository(db)), db
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc, db := newTestService(t)
	defer db.Close()

	if _, err := svc.Create("usr_adm", "usr_a", "", "", "", ""); err == nil {
		t.Fatal("Expected error for empty title")
	}

	task, err := svc.Create("usr_adm", "usr_a", "", "Audit keywords", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(task.ID, "tsk_") {
		t.Errorf("Unexpected id %s", task.ID)
	}
	if task.Priority != "medium" || task.Status != "pending" {
		t.Errorf("Defaults not applied: %+v", task)
	}

	got, err := svc.repo.GetByID(task.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID failed: %v %v", got, err)
	}
	if got.ClientID != "" || got.DueDate != "" {
		t.Errorf("Empty optionals should round-trip empty, got %+v", got)
	}
}

func TestToggleAssigneeOnly(t *testing.T) {
	svc, db := newTestService(t)
	defer db.Close()

	task, err := svc.Create("usr_adm", "usr_a", "cli_1", "Write report", "high", "2026-09-05")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Toggle("usr_b", task.ID); err != ErrNotAssignee {
		t.Fatalf("Expected ErrNotAssignee, got %v", err)
	}
	if _, err := svc.Toggle("usr_a", "tsk_missing"); err != ErrTaskNotFound {
		t.Fatalf("Expected ErrTaskNotFound, got %v", err)
	}

	done, err := svc.Toggle("usr_a", task.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if done.Status != "completed" || done.CompletedAt == nil {
		t.Errorf("Expected completed with timestamp, got %+v", done)
	}

	undone, err := svc.Toggle("usr_a", task.ID)
	if err != nil {
		t.Fatalf("Toggle back failed: %v", err)
	}
	if undone.Status != "pending" || undone.CompletedAt != nil {
		t.Errorf("Expected pending with cleared timestamp, got %+v", undone)
	}
}

func TestAnnotate(t *testing.T) {
	svc, db := newTestService(t)
	defer db.Close()

	task, _ := svc.Create("usr_adm", "usr_a", "", "Check backlinks", "low", "")

	if _, err := svc.Annotate("usr_other", task.ID, "nope"); err != ErrNotAssignee {
		t.Fatalf("Expected ErrNotAssignee for stranger, got %v", err)
	}

	// Both the assignee and the creator may annotate.
	if _, err := svc.Annotate("usr_adm", task.ID, "creator note"); err != nil {
		t.Fatalf("Creator annotate failed: %v", err)
	}
	got, err := svc.Annotate("usr_a", task.ID, "waiting on client access")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if got.Remarks != "waiting on client access" {
		t.Errorf("Remarks = %q", got.Remarks)
	}

	stored, _ := svc.repo.GetByID(task.ID)
	if stored.Remarks != "waiting on client access" {
		t.Errorf("Stored remarks = %q", stored.Remarks)
	}
}

func TestDeleteCreatorOnly(t *testing.T) {
	svc, db := newTestService(t)
	defer db.Close()

	task, _ := svc.Create("usr_adm", "usr_a", "", "One-off", "medium", "")

	if err := svc.Delete("usr_a", task.ID); err != ErrNotAssignee {
		t.Fatalf("Assignee must not delete, got %v", err)
	}
	if err := svc.Delete("usr_adm", task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete("usr_adm", task.ID); err != ErrTaskNotFound {
		t.Fatalf("Expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestListScoping(t *testing.T) {
	svc, db := newTestService(t)
	defer db.Close()

	svc.Create("usr_adm", "usr_a", "", "A1", "", "")
	svc.Create("usr_adm", "usr_a", "", "A2", "", "")
	svc.Create("usr_adm", "usr_b", "", "B1", "", "")

	mine, err := svc.ListMine("usr_a")
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("Expected 2 tasks for usr_a, got %d", len(mine))
	}
	for _, tk := range mine {
		if tk.AssignedTo != "usr_a" {
			t.Errorf("Foreign task leaked: %+v", tk)
		}
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(all))
	}
}
