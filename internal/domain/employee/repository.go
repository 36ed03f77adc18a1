package employee

import "context"

// EmployeeRepository is a read-only view of the identity collaborator.
// The attendance core only joins on name, department and employee code.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when no employee has the id.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmployeeCode returns ErrEmployeeNotFound when the code is unknown.
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// ListByRole returns employees with the role, ordered by name.
	ListByRole(ctx context.Context, role Role) ([]Employee, error)

	// ListByIDs returns the employees found among ids; unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
}
