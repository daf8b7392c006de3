package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"clientflow/internal/pkg/errors"
	"clientflow/internal/platform/models"
)

func setupAssignmentDB(t *testing.T) *sql.DB {
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
		slug TEXT UNIQUE NOT NULL
	);
	CREATE TABLE client_assignments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(client_id, employee_id, service_id)
	);

	INSERT INTO profiles VALUES ('usr_1', 'Asha'), ('usr_2', 'Ben');
	INSERT INTO clients VALUES ('cli_1', 'Acme');
	INSERT INTO services VALUES ('svc_seo', 'seo'), ('svc_li', 'linkedin_outreach');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func insertAssignment(t *testing.T, repo *AssignmentRepository, db *sql.DB, id, clientID, employeeID, serviceID string) error {
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	a := &models.ClientAssignment{
		ID:         id,
		ClientID:   clientID,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		CreatedAt:  1,
	}
	if err := repo.CreateTx(tx, a); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func TestAssignmentRepository_DuplicateTripleRejected(t *testing.T) {
	db := setupAssignmentDB(t)
	defer db.Close()
	repo := NewAssignmentRepository(db)

	if err := insertAssignment(t, repo, db, "asg_1", "cli_1", "usr_1", "svc_seo"); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := insertAssignment(t, repo, db, "asg_2", "cli_1", "usr_1", "svc_seo")
	if err == nil {
		t.Fatal("Duplicate triple should fail")
	}
	if !errors.IsDuplicate(err) {
		t.Errorf("Expected unique-constraint classification, got %v", err)
	}

	// Same employee and client on a different service is fine.
	if err := insertAssignment(t, repo, db, "asg_3", "cli_1", "usr_1", "svc_li"); err != nil {
		t.Errorf("Different service should insert: %v", err)
	}
	// Same client and service for another employee is fine.
	if err := insertAssignment(t, repo, db, "asg_4", "cli_1", "usr_2", "svc_seo"); err != nil {
		t.Errorf("Different employee should insert: %v", err)
	}
}

func TestAssignmentRepository_ListByEmployee(t *testing.T) {
	db := setupAssignmentDB(t)
	defer db.Close()
	repo := NewAssignmentRepository(db)

	if err := insertAssignment(t, repo, db, "asg_1", "cli_1", "usr_1", "svc_seo"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := insertAssignment(t, repo, db, "asg_2", "cli_1", "usr_2", "svc_seo"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	list, err := repo.ListByEmployee("usr_1")
	if err != nil {
		t.Fatalf("ListByEmployee failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 assignment, got %d", len(list))
	}
	if list[0].ClientName != "Acme" || list[0].ServiceSlug != "seo" {
		t.Errorf("Joined names missing: %+v", list[0])
	}
}

func TestAssignmentRepository_GetByIDMissing(t *testing.T) {
	db := setupAssignmentDB(t)
	defer db.Close()
	repo := NewAssignmentRepository(db)

	a, err := repo.GetByID("asg_missing")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if a != nil {
		t.Errorf("Expected nil for missing assignment, got %+v", a)
	}
}
