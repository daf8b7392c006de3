package dailylogs

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
)

// Metrics is the service-specific numeric key/value map a log carries,
// stored as JSON.
type Metrics map[string]float64

func (m Metrics) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *Metrics) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = Metrics{}
		return nil
	}
	return errors.New("unsupported metrics column type")
}

type Log struct {
	ID           string  `json:"id"`
	AssignmentID string  `json:"assignment_id"`
	EmployeeID   string  `json:"employee_id"`
	LogDate      string  `json:"log_date"` // YYYY-MM-DD
	Metrics      Metrics `json:"metrics"`
	Notes        string  `json:"notes"`
	Status       string  `json:"status"`
	SubmittedAt  *int64  `json:"submitted_at,omitempty"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

// Entry is one reconciled row for the submissions view: the assignment plus
// its log for the selected date, defaulted when no log exists yet.
type Entry struct {
	AssignmentID string  `json:"assignment_id"`
	ClientName   string  `json:"client_name"`
	ServiceSlug  string  `json:"service_slug"`
	LogID        string  `json:"log_id,omitempty"`
	Metrics      Metrics `json:"metrics"`
	Notes        string  `json:"notes"`
	Status       string  `json:"status"` // not_started, pending, submitted
	SubmittedAt  *int64  `json:"submitted_at,omitempty"`
	Configured   bool    `json:"configured"`
	ReadOnly     bool    `json:"read_only"`
}

const StatusNotStarted = "not_started"
