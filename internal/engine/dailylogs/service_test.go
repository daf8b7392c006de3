package dailylogs

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"clientflow/internal/platform/repositories"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	schema := `
	CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL
	);
	CREATE TABLE clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	CREATE TABLE services (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL
	);
	CREATE TABLE client_assignments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(client_id, employee_id, service_id)
	);
	CREATE TABLE daily_task_logs (
		id TEXT PRIMARY KEY,
		assignment_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		log_date TEXT NOT NULL,
		metrics TEXT NOT NULL DEFAULT '{}',
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		submitted_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(assignment_id, log_date)
	);

	INSERT INTO profiles VALUES ('usr_1', 'Asha');
	INSERT INTO clients VALUES ('cli_1', 'Acme'), ('cli_2', 'Globex');
	INSERT INTO services VALUES
		('svc_li', 'linkedin_outreach', 'LinkedIn Outreach'),
		('svc_seo', 'seo', 'SEO');
	INSERT INTO client_assignments VALUES
		('asg_1', 'cli_1', 'usr_1', 'svc_li', 0),
		('asg_2', 'cli_2', 'usr_1', 'svc_seo', 0);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func newTestService(db *sql.DB) *Service {
	return NewService(NewRepository(db), repositories.NewAssignmentRepository(db))
}

func TestReconcile_DefaultsWhenNoLogs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestService(db)

	entries, err := svc.Reconcile("usr_1", "2026-09-01")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	for _, e := range entries {
		if e.Status != StatusNotStarted {
			t.Errorf("Entry %s: expected not_started, got %s", e.AssignmentID, e.Status)
		}
		if e.ReadOnly {
			t.Errorf("Entry %s: unexpected read-only", e.AssignmentID)
		}
		if len(e.Metrics) == 0 {
			t.Errorf("Entry %s: expected defaulted metrics", e.AssignmentID)
		}
		for field, v := range e.Metrics {
			if v != 0 {
				t.Errorf("Entry %s: default metric %s = %v, want 0", e.AssignmentID, field, v)
			}
		}
	}

	// linkedin_outreach has a catalog entry
	if !entries[0].Configured && !entries[1].Configured {
		t.Error("Expected at least one configured service entry")
	}
}

func TestReconcile_MergesStoredLog(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestService(db)

	saved, err := svc.SaveDraft("usr_1", "asg_1", "2026-09-01", Metrics{"connection_requests_sent": 12}, "steady")
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	entries, err := svc.Reconcile("usr_1", "2026-09-01")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	var withLog, without *Entry
	for _, e := range entries {
		if e.AssignmentID == "asg_1" {
			withLog = e
		} else {
			without = e
		}
	}

	if withLog.LogID != saved.ID {
		t.Errorf("Expected stored log id %s, got %s", saved.ID, withLog.LogID)
	}
	if withLog.Status != StatusPending {
		t.Errorf("Expected pending, got %s", withLog.Status)
	}
	if withLog.Metrics["connection_requests_sent"] != 12 {
		t.Errorf("Stored metric lost: %v", withLog.Metrics)
	}
	if without.Status != StatusNotStarted {
		t.Errorf("Untouched assignment should be not_started, got %s", without.Status)
	}
}

func TestSubmit_LocksLog(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestService(db)

	submitted, err := svc.Submit("usr_1", "asg_1", "2026-09-01", Metrics{"connection_requests_sent": 5}, "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.Status != StatusSubmitted {
		t.Errorf("Expected submitted, got %s", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Error("Expected submitted_at to be stamped")
	}

	if _, err := svc.SaveDraft("usr_1", "asg_1", "2026-09-01", Metrics{}, "late edit"); err != ErrSubmitted {
		t.Errorf("Expected ErrSubmitted on draft after submit, got %v", err)
	}
	if _, err := svc.Submit("usr_1", "asg_1", "2026-09-01", Metrics{}, ""); err != ErrSubmitted {
		t.Errorf("Expected ErrSubmitted on resubmit, got %v", err)
	}

	entries, err := svc.Reconcile("usr_1", "2026-09-01")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	for _, e := range entries {
		if e.AssignmentID == "asg_1" && !e.ReadOnly {
			t.Error("Submitted entry should reconcile as read-only")
		}
	}
}

func TestUpsert_OwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestService(db)

	if _, err := svc.SaveDraft("usr_other", "asg_1", "2026-09-01", Metrics{}, ""); err != ErrNotAssignmentOwner {
		t.Errorf("Expected ErrNotAssignmentOwner, got %v", err)
	}
	if _, err := svc.SaveDraft("usr_1", "asg_missing", "2026-09-01", Metrics{}, ""); err != ErrAssignmentNotFound {
		t.Errorf("Expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestSaveDraft_UpsertsSameRow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestService(db)

	first, err := svc.SaveDraft("usr_1", "asg_1", "2026-09-01", Metrics{"connection_requests_sent": 1}, "a")
	if err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	second, err := svc.SaveDraft("usr_1", "asg_1", "2026-09-01", Metrics{"connection_requests_sent": 7}, "b")
	if err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Draft saves created separate rows: %s vs %s", first.ID, second.ID)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM daily_task_logs").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 log row, got %d", count)
	}
}

func TestDefaultMetrics_Catalog(t *testing.T) {
	m, ok := DefaultMetrics("linkedin_outreach")
	if !ok {
		t.Fatal("linkedin_outreach should be in the catalog")
	}
	if _, present := m["connection_requests_sent"]; !present {
		t.Error("Expected connection_requests_sent in defaults")
	}

	m, ok = DefaultMetrics("unknown_service")
	if ok {
		t.Error("Unknown slug should not report configured")
	}
	if m == nil {
		t.Error("Unknown slug should still return a usable metrics map")
	}
}
