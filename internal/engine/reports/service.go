package reports

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotOwner = errors.New("report belongs to another employee")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SaveDraft upserts the report for (employee, client, service, week) keeping
// it in draft state. Called both by the authoring endpoint and the
// auto-saver.
func (s *Service) SaveDraft(employeeID, clientID, serviceID, weekStartDate string, d Draft) (*Report, error) {
	existing, err := s.repo.GetByKey(employeeID, clientID, serviceID, weekStartDate)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Summary = d.Summary
		existing.Achievements = d.Achievements
		existing.Blockers = d.Blockers
		existing.NextSteps = d.NextSteps
		if err := s.repo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	now := time.Now().Unix()
	rep := &Report{
		ID:             "rpt_" + uuid.NewString(),
		EmployeeID:     employeeID,
		ClientID:       clientID,
		ServiceID:      serviceID,
		WeekStartDate:  weekStartDate,
		Summary:        d.Summary,
		Achievements:   d.Achievements,
		Blockers:       d.Blockers,
		NextSteps:      d.NextSteps,
		IsDraft:        true,
		Status:         "pending",
		ApprovalStatus: ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Finalize marks the draft as submitted for approval.
func (s *Service) Finalize(employeeID, reportID string) (*Report, error) {
	rep, err := s.repo.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, errors.New("report not found")
	}
	if rep.EmployeeID != employeeID {
		return nil, ErrNotOwner
	}

	rep.IsDraft = false
	rep.Status = "submitted"
	if err := s.repo.Update(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) Get(reportID string) (*Report, error) {
	return s.repo.GetByID(reportID)
}

func (s *Service) ListByEmployee(employeeID string) ([]*Report, error) {
	return s.repo.ListByEmployee(employeeID)
}

func (s *Service) ListPendingApproval() ([]*Report, error) {
	return s.repo.ListPendingApproval()
}

func (s *Service) ListApprovedForClient(clientID string) ([]*Report, error) {
	return s.repo.ListApprovedForClient(clientID)
}

func (s *Service) Approve(reportID string) error {
	return s.repo.SetApproval(reportID, ApprovalApproved)
}

func (s *Service) Reject(reportID string) error {
	return s.repo.SetApproval(reportID, ApprovalRejected)
}

// WeekStart normalizes any date to the Monday of its week, the canonical
// week_start_date key.
func WeekStart(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}
