package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func waitForState(t *testing.T, m *Manager, want State) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state never reached %s, stuck at %s", want, m.State())
}

func TestManager_FailsafeTimesOutToUnauthenticated(t *testing.T) {
	m := NewManager(NewClient("http://127.0.0.1:0"), WithInitTimeout(30*time.Millisecond))
	m.Start()
	defer m.Close()

	if m.State() != StateUninitialized {
		t.Fatalf("Expected uninitialized at start, got %s", m.State())
	}
	waitForState(t, m, StateUnauthenticated)
}

func TestManager_RestoreLoadsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"profile": map[string]interface{}{
				"id":        "usr_1",
				"email":     "asha@example.com",
				"full_name": "Asha",
				"role":      "employee",
			},
		})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL))
	m.Start()
	defer m.Close()

	m.Restore("good-token", "refresh-token")
	waitForState(t, m, StateAuthenticated)

	profile := m.Profile()
	if profile == nil || profile.ID != "usr_1" {
		t.Fatalf("Expected loaded profile, got %v", profile)
	}
	if m.SessionExpired() {
		t.Error("Fresh session should not be flagged expired")
	}
}

func TestManager_ExpiredTokenSignsOut(t *testing.T) {
	var logoutCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profile":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{"message": "Invalid or expired token"})
		case "/api/v1/auth/logout":
			atomic.AddInt64(&logoutCalls, 1)
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL))
	m.Start()
	defer m.Close()

	m.Restore("stale-token", "stale-refresh")
	waitForState(t, m, StateUnauthenticated)

	if m.Profile() != nil {
		t.Error("Expired session should have nil profile")
	}
	if !m.SessionExpired() {
		t.Error("Expired session should set the expired flag")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && atomic.LoadInt64(&logoutCalls) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if atomic.LoadInt64(&logoutCalls) == 0 {
		t.Error("Expired session should issue a server-side logout")
	}
}

func TestManager_NonAuthFailureFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "database unreachable"})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL))
	m.Start()
	defer m.Close()

	m.Restore("some-token", "")
	waitForState(t, m, StateUnauthenticated)

	if m.Profile() != nil {
		t.Error("Failed profile load must read as signed out")
	}
	if m.SessionExpired() {
		t.Error("Server outage is not a session expiry")
	}
}

func TestManager_PortalUserState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"portal_user": true,
			"client_id":   "cli_9",
		})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL))
	m.Start()
	defer m.Close()

	m.Restore("portal-token", "")
	waitForState(t, m, StatePortal)

	if m.PortalClientID() != "cli_9" {
		t.Errorf("Expected portal client cli_9, got %q", m.PortalClientID())
	}
	if m.Profile() != nil {
		t.Error("Portal sessions carry no internal profile")
	}
}

func TestManager_EmptyTokenResetsState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"profile": map[string]interface{}{"id": "usr_1", "role": "employee"},
		})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL))
	m.Start()
	defer m.Close()

	m.Restore("token", "")
	waitForState(t, m, StateAuthenticated)

	m.Restore("", "")
	waitForState(t, m, StateUnauthenticated)
	if m.Profile() != nil {
		t.Error("Sign-out should clear the profile")
	}
}

func TestManager_OnlineTransitionClearsExpiredFlag(t *testing.T) {
	m := NewManager(NewClient("http://127.0.0.1:0"), WithInitTimeout(time.Hour))
	m.Start()
	defer m.Close()

	m.mu.Lock()
	m.sessionExpired = true
	m.mu.Unlock()

	// Staying online must not clear the flag.
	m.SetOnline(true)
	if !m.SessionExpired() {
		t.Error("Flag cleared without an offline-online transition")
	}

	m.SetOnline(false)
	m.SetOnline(true)
	if m.SessionExpired() {
		t.Error("Coming back online should clear the expired flag")
	}
}
