package team

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}

	schema := `
	CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		deleted_at INTEGER
	);
	CREATE TABLE clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		priority TEXT NOT NULL DEFAULT 'medium',
		health_status TEXT NOT NULL DEFAULT 'green',
		health_score INTEGER NOT NULL DEFAULT 0,
		weekly_meeting_day TEXT NOT NULL DEFAULT '',
		meeting_time TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE services (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE NOT NULL
	);
	CREATE TABLE client_services (
		client_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		PRIMARY KEY (client_id, service_id)
	);
	CREATE TABLE client_assignments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		service_id TEXT NOT NULL
	);
	CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		assigned_to TEXT NOT NULL,
		client_id TEXT,
		title TEXT NOT NULL,
		priority TEXT NOT NULL DEFAULT 'medium',
		due_date TEXT,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	CREATE TABLE daily_task_logs (
		id TEXT PRIMARY KEY,
		assignment_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		log_date TEXT NOT NULL,
		status TEXT NOT NULL
	);

	INSERT INTO profiles (id, email, full_name, role) VALUES
		('usr_a', 'a@x.com', 'Asha', 'employee'),
		('usr_b', 'b@x.com', 'Ben', 'employee'),
		('usr_adm', 'adm@x.com', 'Root', 'admin');
	INSERT INTO clients (id, name, weekly_meeting_day, meeting_time) VALUES
		('cli_1', 'Acme', 'monday', '10:00'),
		('cli_2', 'Globex', '', '');
	INSERT INTO services VALUES ('svc_seo', 'seo'), ('svc_li', 'linkedin_outreach');
	INSERT INTO client_services VALUES ('cli_1', 'svc_seo'), ('cli_1', 'svc_li'), ('cli_2', 'svc_seo');
	INSERT INTO client_assignments VALUES
		('asg_1', 'cli_1', 'usr_a', 'svc_seo'),
		('asg_2', 'cli_1', 'usr_a', 'svc_li'),
		('asg_3', 'cli_2', 'usr_b', 'svc_seo');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func TestTeamMembers_WorkloadScore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.Exec(`INSERT INTO tasks (id, assigned_to, title) VALUES ('tsk_1', 'usr_a', 'do it')`); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	members, err := NewService(db).TeamMembers()
	if err != nil {
		t.Fatalf("TeamMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("Expected 2 employees (admin excluded), got %d", len(members))
	}

	asha := members[0]
	if asha.FullName != "Asha" {
		t.Fatalf("Expected Asha first, got %s", asha.FullName)
	}
	if asha.AssignmentCount != 2 || asha.OpenTaskCount != 1 {
		t.Errorf("Asha counts wrong: %+v", asha)
	}
	if asha.WorkloadScore != 2*3+1 {
		t.Errorf("Expected workload 7, got %d", asha.WorkloadScore)
	}
}

func TestManagedClients_ScopedToEmployee(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := NewService(db)

	all, err := svc.ManagedClients("")
	if err != nil {
		t.Fatalf("ManagedClients failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Admin view should see 2 clients, got %d", len(all))
	}

	mine, err := svc.ManagedClients("usr_a")
	if err != nil {
		t.Fatalf("ManagedClients failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "cli_1" {
		t.Errorf("usr_a should see only Acme, got %v", mine)
	}
	if mine[0].ServiceCount != 2 || mine[0].AssignedCount != 1 {
		t.Errorf("Rollup counts wrong: %+v", mine[0])
	}
}

func TestTeamDailyProgress(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.Exec(`
		INSERT INTO daily_task_logs VALUES
			('dlg_1', 'asg_1', 'usr_a', '2026-09-01', 'submitted'),
			('dlg_2', 'asg_2', 'usr_a', '2026-09-01', 'pending')
	`); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	progress, err := NewService(db).TeamDailyProgress("2026-09-01")
	if err != nil {
		t.Fatalf("TeamDailyProgress failed: %v", err)
	}

	byName := map[string]*DailyProgress{}
	for _, p := range progress {
		byName[p.FullName] = p
	}

	asha := byName["Asha"]
	if asha.SubmittedLogs != 1 || asha.DraftLogs != 1 || asha.MissingLogs != 0 {
		t.Errorf("Asha progress wrong: %+v", asha)
	}
	ben := byName["Ben"]
	if ben.SubmittedLogs != 0 || ben.MissingLogs != 1 {
		t.Errorf("Ben progress wrong: %+v", ben)
	}
}

func TestPrioritizedTasks_Ordering(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.Exec(`
		INSERT INTO tasks (id, assigned_to, title, priority, due_date, status) VALUES
			('tsk_done', 'usr_a', 'finished', 'high', '2020-01-01', 'completed'),
			('tsk_low', 'usr_a', 'someday', 'low', '2099-01-01', 'pending'),
			('tsk_overdue', 'usr_a', 'late', 'low', '2020-01-01', 'pending'),
			('tsk_high', 'usr_a', 'urgent', 'high', '2099-06-01', 'pending'),
			('tsk_nodue', 'usr_a', 'whenever', 'high', NULL, 'pending')
	`); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	tasks, err := NewService(db).PrioritizedTasks("usr_a")
	if err != nil {
		t.Fatalf("PrioritizedTasks failed: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("Completed task should be excluded, got %d tasks", len(tasks))
	}

	wantOrder := []string{"tsk_overdue", "tsk_high", "tsk_nodue", "tsk_low"}
	for i, want := range wantOrder {
		if tasks[i].ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, tasks[i].ID)
		}
		if tasks[i].Rank != i+1 {
			t.Errorf("Position %d: rank = %d", i, tasks[i].Rank)
		}
	}
	if !tasks[0].Overdue {
		t.Error("Overdue task not flagged")
	}
}

func TestAvailableMembersForAssignment(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// usr_a already holds (cli_1, svc_seo); only Ben is available.
	members, err := NewService(db).AvailableMembersForAssignment("cli_1", "svc_seo")
	if err != nil {
		t.Fatalf("AvailableMembersForAssignment failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != "usr_b" {
		t.Errorf("Expected only usr_b available, got %v", members)
	}
}

func TestDailyAgenda_MergesSources(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// 2026-09-07 is a Monday, Acme's meeting day.
	if _, err := db.Exec(`
		INSERT INTO tasks (id, assigned_to, title, due_date, status) VALUES
			('tsk_due', 'usr_a', 'ship it', '2026-09-07', 'pending');
		INSERT INTO daily_task_logs VALUES
			('dlg_1', 'asg_1', 'usr_a', '2026-09-07', 'submitted');
	`); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	items, err := NewService(db).DailyAgenda("usr_a", "2026-09-07")
	if err != nil {
		t.Fatalf("DailyAgenda failed: %v", err)
	}

	counts := map[string]int{}
	var submittedLogs int
	for _, item := range items {
		counts[item.Kind]++
		if item.Kind == "daily_log" && item.Done {
			submittedLogs++
		}
	}

	if counts["daily_log"] != 2 {
		t.Errorf("Expected 2 log items, got %d", counts["daily_log"])
	}
	if submittedLogs != 1 {
		t.Errorf("Expected 1 submitted log item, got %d", submittedLogs)
	}
	if counts["task"] != 1 {
		t.Errorf("Expected 1 task item, got %d", counts["task"])
	}
	if counts["meeting"] != 1 {
		t.Errorf("Expected 1 meeting item, got %d", counts["meeting"])
	}
}
