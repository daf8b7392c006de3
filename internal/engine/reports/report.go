package reports

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type Report struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	ClientID       string `json:"client_id"`
	ServiceID      string `json:"service_id"`
	WeekStartDate  string `json:"week_start_date"` // YYYY-MM-DD, Monday
	Summary        string `json:"summary"`
	Achievements   string `json:"achievements"`
	Blockers       string `json:"blockers"`
	NextSteps      string `json:"next_steps"`
	IsDraft        bool   `json:"is_draft"`
	Status         string `json:"status"`
	ApprovalStatus string `json:"approval_status"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`

	ClientName  string `json:"client_name,omitempty"`
	ServiceSlug string `json:"service_slug,omitempty"`
}

// Draft is the editable narrative portion, as held by the auto-saver between
// flushes.
type Draft struct {
	Summary      string `json:"summary"`
	Achievements string `json:"achievements"`
	Blockers     string `json:"blockers"`
	NextSteps    string `json:"next_steps"`
}
