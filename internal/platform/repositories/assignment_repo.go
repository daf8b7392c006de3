package repositories

import (
	"database/sql"

	"clientflow/internal/platform/models"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateTx inserts an assignment. The (client, employee, service) triple is
// unique at the schema level, so a duplicate surfaces as a constraint error.
func (r *AssignmentRepository) CreateTx(tx *sql.Tx, a *models.ClientAssignment) error {
	_, err := tx.Exec(`
		INSERT INTO client_assignments (id, client_id, employee_id, service_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.ClientID, a.EmployeeID, a.ServiceID, a.CreatedAt)
	return err
}

func (r *AssignmentRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM client_assignments WHERE id = ?`, id)
	return err
}

const assignmentSelect = `
	SELECT a.id, a.client_id, a.employee_id, a.service_id, a.created_at,
	       c.name, p.full_name, s.slug
	FROM client_assignments a
	JOIN clients c ON c.id = a.client_id
	JOIN profiles p ON p.id = a.employee_id
	JOIN services s ON s.id = a.service_id
`

func (r *AssignmentRepository) GetByID(id string) (*models.ClientAssignment, error) {
	a, err := scanAssignment(r.db.QueryRow(assignmentSelect+` WHERE a.id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *AssignmentRepository) ListByEmployee(employeeID string) ([]*models.ClientAssignment, error) {
	return r.list(assignmentSelect+` WHERE a.employee_id = ? ORDER BY c.name, s.slug`, employeeID)
}

func (r *AssignmentRepository) ListByClient(clientID string) ([]*models.ClientAssignment, error) {
	return r.list(assignmentSelect+` WHERE a.client_id = ? ORDER BY p.full_name, s.slug`, clientID)
}

func (r *AssignmentRepository) list(query string, args ...interface{}) ([]*models.ClientAssignment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.ClientAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func scanAssignment(s interface {
	Scan(dest ...interface{}) error
}) (*models.ClientAssignment, error) {
	a := &models.ClientAssignment{}
	err := s.Scan(&a.ID, &a.ClientID, &a.EmployeeID, &a.ServiceID, &a.CreatedAt,
		&a.ClientName, &a.EmployeeName, &a.ServiceSlug)
	if err != nil {
		return nil, err
	}
	return a, nil
}
