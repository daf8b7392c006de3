package dailylogs

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/platform/repositories"
)

var (
	ErrSubmitted          = errors.New("log already submitted")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNotAssignmentOwner = errors.New("assignment belongs to another employee")
)

type Service struct {
	repo        *Repository
	assignments *repositories.AssignmentRepository
}

func NewService(repo *Repository, assignments *repositories.AssignmentRepository) *Service {
	return &Service{repo: repo, assignments: assignments}
}

// Reconcile builds the submissions view for one employee and date: one entry
// per assignment, backed by the stored log when one exists and by catalog
// defaults when not. All logs for the date are fetched in a single query.
func (s *Service) Reconcile(employeeID, logDate string) ([]*Entry, error) {
	assignments, err := s.assignments.ListByEmployee(employeeID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}

	logs, err := s.repo.ListForDate(ids, logDate)
	if err != nil {
		return nil, err
	}

	byAssignment := make(map[string]*Log, len(logs))
	for _, l := range logs {
		byAssignment[l.AssignmentID] = l
	}

	entries := make([]*Entry, 0, len(assignments))
	for _, a := range assignments {
		entry := &Entry{
			AssignmentID: a.ID,
			ClientName:   a.ClientName,
			ServiceSlug:  a.ServiceSlug,
		}

		if l, ok := byAssignment[a.ID]; ok {
			entry.LogID = l.ID
			entry.Metrics = l.Metrics
			entry.Notes = l.Notes
			entry.Status = l.Status
			entry.SubmittedAt = l.SubmittedAt
			entry.ReadOnly = l.Status == StatusSubmitted
			entry.Configured = true
			if len(l.Metrics) == 0 {
				entry.Metrics, entry.Configured = DefaultMetrics(a.ServiceSlug)
			}
		} else {
			entry.Status = StatusNotStarted
			entry.Metrics, entry.Configured = DefaultMetrics(a.ServiceSlug)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// SaveDraft upserts the log for (assignment, date) with status pending.
func (s *Service) SaveDraft(employeeID, assignmentID, logDate string, metrics Metrics, notes string) (*Log, error) {
	return s.upsert(employeeID, assignmentID, logDate, metrics, notes, StatusPending)
}

// Submit upserts with status submitted and stamps submitted_at. A submitted
// log refuses any further write, draft or otherwise.
func (s *Service) Submit(employeeID, assignmentID, logDate string, metrics Metrics, notes string) (*Log, error) {
	return s.upsert(employeeID, assignmentID, logDate, metrics, notes, StatusSubmitted)
}

func (s *Service) upsert(employeeID, assignmentID, logDate string, metrics Metrics, notes, status string) (*Log, error) {
	assignment, err := s.assignments.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}
	if assignment.EmployeeID != employeeID {
		return nil, ErrNotAssignmentOwner
	}

	if metrics == nil {
		metrics = Metrics{}
	}

	now := time.Now().Unix()
	existing, err := s.repo.GetByAssignmentAndDate(assignmentID, logDate)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.Status == StatusSubmitted {
			return nil, ErrSubmitted
		}
		existing.Metrics = metrics
		existing.Notes = notes
		existing.Status = status
		existing.UpdatedAt = now
		if status == StatusSubmitted {
			existing.SubmittedAt = &now
		}
		if err := s.repo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	l := &Log{
		ID:           "dlg_" + uuid.NewString(),
		AssignmentID: assignmentID,
		EmployeeID:   employeeID,
		LogDate:      logDate,
		Metrics:      metrics,
		Notes:        notes,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == StatusSubmitted {
		l.SubmittedAt = &now
	}
	if err := s.repo.Create(l); err != nil {
		return nil, err
	}
	return l, nil
}
