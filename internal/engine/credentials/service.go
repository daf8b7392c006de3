package credentials

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/platform/models"
)

var (
	ErrNotFound    = errors.New("credential not found")
	ErrNotAssigned = errors.New("not assigned to this client")
)

type Service struct {
	repo   *Repository
	cipher *Cipher
}

func NewService(repo *Repository, cipher *Cipher) *Service {
	return &Service{repo: repo, cipher: cipher}
}

func (s *Service) Create(clientID, label, username, password, notes string) (*models.ClientCredential, error) {
	sealed, err := s.cipher.Seal(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	c := &row{
		ID:             "crd_" + uuid.NewString(),
		ClientID:       clientID,
		Label:          label,
		Username:       username,
		PasswordSealed: sealed,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.create(c); err != nil {
		return nil, err
	}
	return s.toModel(c, false)
}

func (s *Service) Update(id, label, username, password, notes string) (*models.ClientCredential, error) {
	c, err := s.repo.getByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	c.Label = label
	c.Username = username
	c.Notes = notes
	if password != "" {
		sealed, err := s.cipher.Seal(password)
		if err != nil {
			return nil, err
		}
		c.PasswordSealed = sealed
	}

	if err := s.repo.update(c); err != nil {
		return nil, err
	}
	return s.toModel(c, false)
}

func (s *Service) Delete(id string) error {
	return s.repo.delete(id)
}

// ListForViewer returns the client's credentials. Admins always see them;
// employees only when assigned to the client. Passwords are revealed only
// when reveal is set.
func (s *Service) ListForViewer(viewer *models.Profile, clientID string, reveal bool) ([]*models.ClientCredential, error) {
	if viewer.Role != models.RoleAdmin {
		assigned, err := s.repo.assignedToClient(viewer.ID, clientID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, ErrNotAssigned
		}
	}

	stored, err := s.repo.listByClient(clientID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ClientCredential, 0, len(stored))
	for _, c := range stored {
		m, err := s.toModel(c, reveal)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Service) toModel(c *row, reveal bool) (*models.ClientCredential, error) {
	m := &models.ClientCredential{
		ID:        c.ID,
		ClientID:  c.ClientID,
		Label:     c.Label,
		Username:  c.Username,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if reveal {
		password, err := s.cipher.Open(c.PasswordSealed)
		if err != nil {
			return nil, err
		}
		m.Password = password
	}
	return m, nil
}
