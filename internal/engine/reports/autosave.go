package reports

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Selection identifies the report a user is currently editing.
type Selection struct {
	EmployeeID    string
	ClientID      string
	ServiceID     string
	WeekStartDate string
}

// AutoSaver periodically flushes the in-progress draft for the selected
// report. Editing frontends embed one next to their session manager. At most
// one ticker loop runs at a time: selecting a different report stops the
// previous loop before starting the next one.
type AutoSaver struct {
	svc      *Service
	interval time.Duration

	mu    sync.Mutex
	stop  chan struct{}
	sel   Selection
	draft Draft
	dirty bool

	loops   int32
	flushes int64
}

func NewAutoSaver(svc *Service, interval time.Duration) *AutoSaver {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &AutoSaver{svc: svc, interval: interval}
}

// Select switches the auto-saver to a new report. The pending draft of the
// previous selection is flushed before the switch so edits are not lost.
func (a *AutoSaver) Select(sel Selection) {
	a.mu.Lock()

	if a.stop != nil {
		close(a.stop)
		a.stop = nil
		a.flushLocked()
	}

	a.sel = sel
	a.draft = Draft{}
	a.dirty = false
	a.stop = make(chan struct{})
	stop := a.stop
	a.mu.Unlock()

	atomic.AddInt32(&a.loops, 1)
	go a.run(stop)
}

// SetDraft records the latest editor contents for the current selection.
func (a *AutoSaver) SetDraft(d Draft) {
	a.mu.Lock()
	a.draft = d
	a.dirty = true
	a.mu.Unlock()
}

// Stop halts the active loop after flushing any pending draft.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
		a.flushLocked()
	}
}

// ActiveLoops reports how many ticker loops are currently running. It is 0
// or 1 by construction.
func (a *AutoSaver) ActiveLoops() int {
	return int(atomic.LoadInt32(&a.loops))
}

// Flushes reports how many saves the auto-saver has performed.
func (a *AutoSaver) Flushes() int64 {
	return atomic.LoadInt64(&a.flushes)
}

func (a *AutoSaver) run(stop chan struct{}) {
	defer atomic.AddInt32(&a.loops, -1)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.mu.Lock()
			a.flushLocked()
			a.mu.Unlock()
		}
	}
}

// flushLocked saves the draft if it changed since the last flush. Caller
// holds a.mu.
func (a *AutoSaver) flushLocked() {
	if !a.dirty {
		return
	}
	sel, draft := a.sel, a.draft
	a.dirty = false

	if _, err := a.svc.SaveDraft(sel.EmployeeID, sel.ClientID, sel.ServiceID, sel.WeekStartDate, draft); err != nil {
		log.Error().Err(err).
			Str("employee_id", sel.EmployeeID).
			Str("client_id", sel.ClientID).
			Msg("report auto-save failed")
		a.dirty = true
		return
	}
	atomic.AddInt64(&a.flushes, 1)
}
