package reports

import (
	"testing"
	"time"
)

func newTestAutoSaver(t *testing.T, interval time.Duration) (*AutoSaver, func()) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	saver := NewAutoSaver(svc, interval)
	return saver, func() {
		saver.Stop()
		db.Close()
	}
}

func sel(week string) Selection {
	return Selection{
		EmployeeID:    "usr_1",
		ClientID:      "cli_1",
		ServiceID:     "svc_seo",
		WeekStartDate: week,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestAutoSaver_SingleLoopAcrossSelections(t *testing.T) {
	saver, done := newTestAutoSaver(t, time.Hour)
	defer done()

	// Rapidly switching reports must never stack ticker loops.
	for i := 0; i < 10; i++ {
		saver.Select(sel("2026-08-31"))
		saver.Select(sel("2026-08-24"))
	}

	waitFor(t, time.Second, func() bool { return saver.ActiveLoops() == 1 })

	saver.Stop()
	waitFor(t, time.Second, func() bool { return saver.ActiveLoops() == 0 })
}

func TestAutoSaver_FlushesDirtyDraft(t *testing.T) {
	saver, done := newTestAutoSaver(t, 20*time.Millisecond)
	defer done()

	saver.Select(sel("2026-08-31"))
	saver.SetDraft(Draft{Summary: "work in progress"})

	waitFor(t, time.Second, func() bool { return saver.Flushes() >= 1 })
}

func TestAutoSaver_CleanDraftNotReflushed(t *testing.T) {
	saver, done := newTestAutoSaver(t, 20*time.Millisecond)
	defer done()

	saver.Select(sel("2026-08-31"))
	saver.SetDraft(Draft{Summary: "once"})

	waitFor(t, time.Second, func() bool { return saver.Flushes() >= 1 })
	count := saver.Flushes()

	// No further edits, so ticks should not add flushes.
	time.Sleep(100 * time.Millisecond)
	if saver.Flushes() != count {
		t.Errorf("Clean draft reflushed: %d -> %d", count, saver.Flushes())
	}
}

func TestAutoSaver_SwitchFlushesPrevious(t *testing.T) {
	saver, done := newTestAutoSaver(t, time.Hour)
	defer done()

	saver.Select(sel("2026-08-31"))
	saver.SetDraft(Draft{Summary: "about to switch"})

	// Interval is an hour, so the flush can only come from the switch.
	saver.Select(sel("2026-08-24"))

	if saver.Flushes() != 1 {
		t.Errorf("Expected switch to flush pending draft, flushes = %d", saver.Flushes())
	}
}

func TestAutoSaver_StopFlushesPending(t *testing.T) {
	saver, done := newTestAutoSaver(t, time.Hour)
	defer done()

	saver.Select(sel("2026-08-31"))
	saver.SetDraft(Draft{Summary: "final words"})
	saver.Stop()

	if saver.Flushes() != 1 {
		t.Errorf("Expected stop to flush pending draft, flushes = %d", saver.Flushes())
	}
	waitFor(t, time.Second, func() bool { return saver.ActiveLoops() == 0 })
}
