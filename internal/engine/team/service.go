package team

import (
	"database/sql"
	"strings"
	"time"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// TeamMembers lists active employees with their current workload. The score
// weights assignments over open tasks.
func (s *Service) TeamMembers() ([]*Member, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.full_name, p.email, p.status,
			(SELECT COUNT(*) FROM client_assignments a WHERE a.employee_id = p.id),
			(SELECT COUNT(*) FROM tasks t WHERE t.assigned_to = p.id AND t.status = 'pending')
		FROM profiles p
		WHERE p.role = 'employee' AND p.deleted_at IS NULL
		ORDER BY p.full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Status,
			&m.AssignmentCount, &m.OpenTaskCount); err != nil {
			return nil, err
		}
		m.WorkloadScore = m.AssignmentCount*3 + m.OpenTaskCount
		members = append(members, m)
	}
	return members, rows.Err()
}

// ManagedClients lists the clients an employee is assigned to, or every
// client when employeeID is empty (the admin view).
func (s *Service) ManagedClients(employeeID string) ([]*ManagedClient, error) {
	query := `
		SELECT c.id, c.name, c.status, c.priority, c.health_status, c.health_score,
			(SELECT COUNT(DISTINCT a.employee_id) FROM client_assignments a WHERE a.client_id = c.id),
			(SELECT COUNT(*) FROM client_services cs WHERE cs.client_id = c.id)
		FROM clients c
	`
	var args []interface{}
	if employeeID != "" {
		query += ` WHERE c.id IN (SELECT client_id FROM client_assignments WHERE employee_id = ?)`
		args = append(args, employeeID)
	}
	query += ` ORDER BY c.name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*ManagedClient
	for rows.Next() {
		c := &ManagedClient{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.Priority, &c.HealthStatus,
			&c.HealthScore, &c.AssignedCount, &c.ServiceCount); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// TeamDailyProgress summarizes submission state per employee for one date.
func (s *Service) TeamDailyProgress(logDate string) ([]*DailyProgress, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.full_name,
			(SELECT COUNT(*) FROM client_assignments a WHERE a.employee_id = p.id),
			(SELECT COUNT(*) FROM daily_task_logs l WHERE l.employee_id = p.id AND l.log_date = ? AND l.status = 'submitted'),
			(SELECT COUNT(*) FROM daily_task_logs l WHERE l.employee_id = p.id AND l.log_date = ? AND l.status = 'pending')
		FROM profiles p
		WHERE p.role = 'employee' AND p.deleted_at IS NULL
		ORDER BY p.full_name
	`, logDate, logDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []*DailyProgress
	for rows.Next() {
		dp := &DailyProgress{}
		if err := rows.Scan(&dp.EmployeeID, &dp.FullName, &dp.Assignments,
			&dp.SubmittedLogs, &dp.DraftLogs); err != nil {
			return nil, err
		}
		dp.MissingLogs = dp.Assignments - dp.SubmittedLogs - dp.DraftLogs
		if dp.MissingLogs < 0 {
			dp.MissingLogs = 0
		}
		progress = append(progress, dp)
	}
	return progress, rows.Err()
}

var priorityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// PrioritizedTasks ranks an employee's pending tasks: overdue first, then by
// priority, then earliest due date.
func (s *Service) PrioritizedTasks(employeeID string) ([]*PrioritizedTask, error) {
	today := time.Now().Format("2006-01-02")

	rows, err := s.db.Query(`
		SELECT t.id, t.title, t.priority, COALESCE(t.due_date, ''), COALESCE(t.client_id, ''),
			COALESCE(c.name, '')
		FROM tasks t
		LEFT JOIN clients c ON c.id = t.client_id
		WHERE t.assigned_to = ? AND t.status = 'pending'
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*PrioritizedTask
	for rows.Next() {
		pt := &PrioritizedTask{}
		if err := rows.Scan(&pt.ID, &pt.Title, &pt.Priority, &pt.DueDate,
			&pt.ClientID, &pt.ClientName); err != nil {
			return nil, err
		}
		pt.Overdue = pt.DueDate != "" && pt.DueDate < today
		tasks = append(tasks, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortPrioritized(tasks)
	for i, pt := range tasks {
		pt.Rank = i + 1
	}
	return tasks, nil
}

func sortPrioritized(tasks []*PrioritizedTask) {
	less := func(a, b *PrioritizedTask) bool {
		if a.Overdue != b.Overdue {
			return a.Overdue
		}
		if priorityRank[a.Priority] != priorityRank[b.Priority] {
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		}

		// Tasks without a due date sort last.
		if (a.DueDate == "") != (b.DueDate == "") {
			return a.DueDate != ""
		}
		return a.DueDate < b.DueDate
	}

	// Insertion sort keeps it dependency-free; task lists are small.
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && less(tasks[j], tasks[j-1]); j-- {
			tasks[j], tasks[j-1] = tasks[j-1], tasks[j]
		}
	}
}

// AvailableMembersForAssignment lists employees not yet holding the
// (client, service) pair, least-loaded first.
func (s *Service) AvailableMembersForAssignment(clientID, serviceID string) ([]*Member, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.full_name, p.email, p.status,
			(SELECT COUNT(*) FROM client_assignments a WHERE a.employee_id = p.id),
			(SELECT COUNT(*) FROM tasks t WHERE t.assigned_to = p.id AND t.status = 'pending')
		FROM profiles p
		WHERE p.role = 'employee' AND p.status = 'active' AND p.deleted_at IS NULL
			AND p.id NOT IN (
				SELECT employee_id FROM client_assignments
				WHERE client_id = ? AND service_id = ?
			)
		ORDER BY 5 ASC, p.full_name
	`, clientID, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Status,
			&m.AssignmentCount, &m.OpenTaskCount); err != nil {
			return nil, err
		}
		m.WorkloadScore = m.AssignmentCount*3 + m.OpenTaskCount
		members = append(members, m)
	}
	return members, rows.Err()
}

// DailyAgenda assembles one employee's day: per-assignment log status, tasks
// due, and clients whose weekly meeting falls on the date's weekday.
func (s *Service) DailyAgenda(employeeID, logDate string) ([]*DailyAgendaItem, error) {
	var items []*DailyAgendaItem

	rows, err := s.db.Query(`
		SELECT a.id, c.name, sv.slug,
			COALESCE((SELECT l.status FROM daily_task_logs l
				WHERE l.assignment_id = a.id AND l.log_date = ?), '')
		FROM client_assignments a
		JOIN clients c ON c.id = a.client_id
		JOIN services sv ON sv.id = a.service_id
		WHERE a.employee_id = ?
		ORDER BY c.name, sv.slug
	`, logDate, employeeID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item DailyAgendaItem
		var status string
		if err := rows.Scan(&item.Ref, &item.ClientName, &item.ServiceSlug, &status); err != nil {
			rows.Close()
			return nil, err
		}
		item.Kind = "daily_log"
		item.Done = status == "submitted"
		items = append(items, &item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT t.id, t.title, COALESCE(c.name, ''), t.status
		FROM tasks t
		LEFT JOIN clients c ON c.id = t.client_id
		WHERE t.assigned_to = ? AND t.due_date = ?
		ORDER BY t.priority, t.title
	`, employeeID, logDate)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item DailyAgendaItem
		var status string
		if err := rows.Scan(&item.Ref, &item.Title, &item.ClientName, &status); err != nil {
			rows.Close()
			return nil, err
		}
		item.Kind = "task"
		item.Done = status == "completed"
		items = append(items, &item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", logDate)
	if err != nil {
		return items, nil
	}
	weekday := strings.ToLower(day.Weekday().String())

	rows, err = s.db.Query(`
		SELECT DISTINCT c.id, c.name, c.meeting_time
		FROM clients c
		JOIN client_assignments a ON a.client_id = c.id
		WHERE a.employee_id = ? AND c.weekly_meeting_day = ? AND c.status = 'active'
		ORDER BY c.meeting_time
	`, employeeID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item DailyAgendaItem
		if err := rows.Scan(&item.Ref, &item.ClientName, &item.MeetingTime); err != nil {
			return nil, err
		}
		item.Kind = "meeting"
		items = append(items, &item)
	}
	return items, rows.Err()
}
