package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	apiContext "clientflow/internal/api/context"
	"clientflow/internal/engine/reports"
	"clientflow/internal/platform/auth"
)

func newReportTestHandler(t *testing.T) (*ReportHandler, *sql.DB) {
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

	svc := reports.NewService(reports.NewRepository(db))
	return NewReportHandler(svc, nil, nil, nil, nil, 0, nil), db
}

func saveDraftRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reports/draft", strings.NewReader(body))
	claims := &auth.Claims{UserID: "usr_1", Role: "employee"}
	return req.WithContext(context.WithValue(req.Context(), apiContext.Claims, claims))
}

func TestSaveDraftNormalizesWeekToMonday(t *testing.T) {
	h, db := newReportTestHandler(t)
	defer db.Close()

	// Wednesday and its Monday address the same report.
	bodies := []string{
		`{"client_id":"cli_1","service_id":"svc_seo","week_start_date":"2024-01-17","summary":"midweek"}`,
		`{"client_id":"cli_1","service_id":"svc_seo","week_start_date":"2024-01-15","summary":"monday"}`,
	}
	var ids []string
	for _, body := range bodies {
		rec := httptest.NewRecorder()
		h.SaveDraft(rec, saveDraftRequest(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("SaveDraft returned %d: %s", rec.Code, rec.Body.String())
		}
		var rep reports.Report
		if err := json.NewDecoder(rec.Body).Decode(&rep); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if rep.WeekStartDate != "2024-01-15" {
			t.Errorf("Week not normalized: %s", rep.WeekStartDate)
		}
		ids = append(ids, rep.ID)
	}

	if ids[0] != ids[1] {
		t.Errorf("Same week produced two reports: %s vs %s", ids[0], ids[1])
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM weekly_reports`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 report row, got %d", count)
	}
}

func TestSaveDraftRejectsBadDate(t *testing.T) {
	h, db := newReportTestHandler(t)
	defer db.Close()

	rec := httptest.NewRecorder()
	h.SaveDraft(rec, saveDraftRequest(`{"client_id":"cli_1","service_id":"svc_seo","week_start_date":"Jan 17"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed date, got %d", rec.Code)
	}
}
