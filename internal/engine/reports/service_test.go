package reports

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	schema := `
	CREATE TABLE clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	CREATE TABLE services (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL
	);
	CREATE TABLE weekly_reports (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		week_start_date TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		achievements TEXT NOT NULL DEFAULT '',
		blockers TEXT NOT NULL DEFAULT '',
		next_steps TEXT NOT NULL DEFAULT '',
		is_draft INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'draft',
		approval_status TEXT NOT NULL DEFAULT 'pending',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(employee_id, client_id, service_id, week_start_date)
	);

	INSERT INTO clients VALUES ('cli_1', 'Acme');
	INSERT INTO services VALUES ('svc_seo', 'seo');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func TestSaveDraft_UpsertsByKey(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := NewService(NewRepository(db))

	first, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-08-31", Draft{Summary: "v1"})
	if err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	second, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-08-31", Draft{Summary: "v2"})
	if err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Same key created two reports: %s vs %s", first.ID, second.ID)
	}
	if second.Summary != "v2" {
		t.Errorf("Expected latest summary, got %q", second.Summary)
	}
	if !second.IsDraft {
		t.Error("Draft save should keep is_draft")
	}
}

func TestFinalizeAndApprove(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := NewService(NewRepository(db))

	draft, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-08-31", Draft{Summary: "done"})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	if _, err := svc.Finalize("usr_other", draft.ID); err != ErrNotOwner {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}

	final, err := svc.Finalize("usr_1", draft.ID)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if final.IsDraft {
		t.Error("Finalized report still a draft")
	}

	pending, err := svc.ListPendingApproval()
	if err != nil {
		t.Fatalf("ListPendingApproval failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending report, got %d", len(pending))
	}

	if err := svc.Approve(draft.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	approved, err := svc.ListApprovedForClient("cli_1")
	if err != nil {
		t.Fatalf("ListApprovedForClient failed: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != draft.ID {
		t.Errorf("Approved report not visible to client: %v", approved)
	}
}

func TestListApprovedForClient_ExcludesDraftsAndRejected(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := NewService(NewRepository(db))

	// Still a draft
	if _, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-08-24", Draft{}); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	// Submitted then rejected
	rejected, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-08-17", Draft{})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if _, err := svc.Finalize("usr_1", rejected.ID); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if err := svc.Reject(rejected.ID); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	approved, err := svc.ListApprovedForClient("cli_1")
	if err != nil {
		t.Fatalf("ListApprovedForClient failed: %v", err)
	}
	if len(approved) != 0 {
		t.Errorf("Portal should see no reports, got %d", len(approved))
	}
}

func TestDeleteStaleDrafts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	repo := NewRepository(db)
	svc := NewService(repo)

	old, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-01-05", Draft{})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if _, err := db.Exec("UPDATE weekly_reports SET updated_at = 1000 WHERE id = ?", old.ID); err != nil {
		t.Fatalf("Backdate failed: %v", err)
	}

	fresh, err := svc.SaveDraft("usr_1", "cli_1", "svc_seo", "2026-08-31", Draft{})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	removed, err := repo.DeleteStaleDrafts(time.Now().Unix() - 60)
	if err != nil {
		t.Fatalf("DeleteStaleDrafts failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 stale draft removed, got %d", removed)
	}

	remaining, err := repo.GetByID(fresh.ID)
	if err != nil || remaining == nil {
		t.Errorf("Fresh draft should survive the sweep: %v %v", remaining, err)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-08-31", "2026-08-31"}, // Monday
		{"2026-09-01", "2026-08-31"}, // Tuesday
		{"2026-09-06", "2026-08-31"}, // Sunday
	}
	for _, tc := range cases {
		day, err := time.Parse("2006-01-02", tc.in)
		if err != nil {
			t.Fatalf("Bad test date: %v", err)
		}
		if got := WeekStart(day); got != tc.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
