package employee

type Employee struct {
	ID           string
	Name         string
	Department   string
	EmployeeCode string
	Role         Role
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleManager
}
