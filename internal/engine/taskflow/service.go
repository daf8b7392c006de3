package taskflow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/platform/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotAssignee  = errors.New("task is assigned to someone else")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create records a task. Admins assign to anyone; employees may raise tasks
// for peers, which the caller expresses by passing any assignee id.
func (s *Service) Create(createdBy, assignedTo, clientID, title, priority, dueDate string) (*models.Task, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if priority == "" {
		priority = "medium"
	}

	now := time.Now().Unix()
	t := &models.Task{
		ID:         "tsk_" + uuid.NewString(),
		AssignedTo: assignedTo,
		CreatedBy:  createdBy,
		ClientID:   clientID,
		Title:      title,
		Priority:   priority,
		DueDate:    dueDate,
		Status:     "pending",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Toggle flips a task between pending and completed. Only the assignee may
// toggle.
func (s *Service) Toggle(actorID, taskID string) (*models.Task, error) {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if t.AssignedTo != actorID {
		return nil, ErrNotAssignee
	}

	if t.Status == "completed" {
		t.Status = "pending"
		t.CompletedAt = nil
	} else {
		now := time.Now().Unix()
		t.Status = "completed"
		t.CompletedAt = &now
	}

	if err := s.repo.SetStatus(t.ID, t.Status, t.CompletedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Annotate(actorID, taskID, remarks string) (*models.Task, error) {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if t.AssignedTo != actorID && t.CreatedBy != actorID {
		return nil, ErrNotAssignee
	}

	if err := s.repo.SetRemarks(taskID, remarks); err != nil {
		return nil, err
	}
	t.Remarks = remarks
	return t, nil
}

func (s *Service) ListMine(employeeID string) ([]*models.Task, error) {
	return s.repo.ListByAssignee(employeeID)
}

func (s *Service) ListAll() ([]*models.Task, error) {
	return s.repo.ListAll()
}

// Delete removes a task. Only its creator may delete it.
func (s *Service) Delete(actorID, taskID string) error {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTaskNotFound
	}
	if t.CreatedBy != actorID {
		return ErrNotAssignee
	}
	return s.repo.Delete(taskID)
}
