package models

// Role is resolved once at session load and dispatched explicitly; there is
// no per-call "is admin" probing anywhere else.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RolePortal   Role = "portal"
)

type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Role         Role   `json:"role"`
	Status       string `json:"status"` // active, suspended
	ClientID     string `json:"client_id,omitempty"` // set only for portal accounts
	LastLoginAt  *int64 `json:"last_login_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
	DeletedAt    *int64 `json:"deleted_at,omitempty"`
}

type Client struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Status           string  `json:"status"` // active, paused, completed
	Priority         string  `json:"priority"`
	HealthStatus     string  `json:"health_status"`
	HealthScore      int     `json:"health_score"`
	ContactName      string  `json:"contact_name,omitempty"`
	ContactEmail     string  `json:"contact_email,omitempty"`
	ContactPhone     string  `json:"contact_phone,omitempty"`
	WeeklyMeetingDay string  `json:"weekly_meeting_day,omitempty"` // monday..sunday
	MeetingTime      string  `json:"meeting_time,omitempty"`        // HH:MM
	CreatedAt        int64   `json:"created_at"`
	UpdatedAt        int64   `json:"updated_at"`

	EnabledServices []string            `json:"enabled_services,omitempty"`
	Assignments     []*ClientAssignment `json:"assignments,omitempty"`
}

// Service is static catalog data identified by slug.
type Service struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ClientAssignment struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	EmployeeID string `json:"employee_id"`
	ServiceID  string `json:"service_id"`
	CreatedAt  int64  `json:"created_at"`

	ClientName   string `json:"client_name,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	ServiceSlug  string `json:"service_slug,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	AssignedTo  string `json:"assigned_to"`
	CreatedBy   string `json:"created_by"`
	ClientID    string `json:"client_id,omitempty"`
	Title       string `json:"title"`
	Priority    string `json:"priority"` // low, medium, high
	DueDate     string `json:"due_date,omitempty"` // YYYY-MM-DD
	Status      string `json:"status"`   // pending, completed
	Remarks     string `json:"remarks,omitempty"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type ClientCredential struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Label     string `json:"label"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"` // plaintext only in transit; stored sealed
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type ReportAttachment struct {
	ID          string `json:"id"`
	ReportID    string `json:"report_id"`
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   int64  `json:"created_at"`
}

type SharedDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path"`
	SizeBytes   int64  `json:"size_bytes"`
	UploadedBy  string `json:"uploaded_by"`
	ClientID    string `json:"client_id,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type ClientNote struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

type ReportFeedback struct {
	ID        string `json:"id"`
	ReportID  string `json:"report_id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	Body      string `json:"body"`
	ReadAt    *int64 `json:"read_at,omitempty"`
	CreatedAt int64  `json:"created_at"`
}
