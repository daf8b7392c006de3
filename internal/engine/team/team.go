package team

// Aggregate views backing the monitoring endpoints. These replace what the
// hosted platform exposed as server-side procedures: workload scoring and
// prioritization are plain SQL over the same tables the CRUD surface writes.

type Member struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Status          string `json:"status"`
	AssignmentCount int    `json:"assignment_count"`
	OpenTaskCount   int    `json:"open_task_count"`
	WorkloadScore   int    `json:"workload_score"`
}

type ManagedClient struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	HealthStatus  string `json:"health_status"`
	HealthScore   int    `json:"health_score"`
	AssignedCount int    `json:"assigned_count"`
	ServiceCount  int    `json:"service_count"`
}

type DailyProgress struct {
	EmployeeID    string `json:"employee_id"`
	FullName      string `json:"full_name"`
	Assignments   int    `json:"assignments"`
	SubmittedLogs int    `json:"submitted_logs"`
	DraftLogs     int    `json:"draft_logs"`
	MissingLogs   int    `json:"missing_logs"`
}

type PrioritizedTask struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	DueDate    string `json:"due_date,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	Overdue    bool   `json:"overdue"`
	Rank       int    `json:"rank"`
}

type DailyAgendaItem struct {
	Kind        string `json:"kind"` // daily_log, task, meeting
	Ref         string `json:"ref"`
	ClientName  string `json:"client_name,omitempty"`
	ServiceSlug string `json:"service_slug,omitempty"`
	Title       string `json:"title,omitempty"`
	MeetingTime string `json:"meeting_time,omitempty"`
	Done        bool   `json:"done"`
}
