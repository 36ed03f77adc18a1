package fixtures

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"

// ==========================================
// DEMO ROSTER
// ==========================================

// Fixed ids keep tokens minted for local testing valid across restarts.
const (
	ManagerID = "0192f3a0-7c1e-7000-8000-000000000001"
)

// DemoRoster returns the directory used by the memory store and seeded into
// PostgreSQL in development.
func DemoRoster() []employee.Employee {
	return []employee.Employee{
		{ID: ManagerID, Name: "Maya Putri", Department: "Engineering", EmployeeCode: "MGR001", Role: employee.RoleManager},
		{ID: "0192f3a0-7c1e-7000-8000-000000000002", Name: "Ayu Lestari", Department: "Engineering", EmployeeCode: "EMP001", Role: employee.RoleEmployee},
		{ID: "0192f3a0-7c1e-7000-8000-000000000003", Name: "Budi Santoso", Department: "Engineering", EmployeeCode: "EMP002", Role: employee.RoleEmployee},
		{ID: "0192f3a0-7c1e-7000-8000-000000000004", Name: "Citra Dewanti", Department: "Finance", EmployeeCode: "EMP003", Role: employee.RoleEmployee},
		{ID: "0192f3a0-7c1e-7000-8000-000000000005", Name: "Dimas Pratama", Department: "Finance", EmployeeCode: "EMP004", Role: employee.RoleEmployee},
		{ID: "0192f3a0-7c1e-7000-8000-000000000006", Name: "Eka Wulandari", Department: "Sales", EmployeeCode: "EMP005", Role: employee.RoleEmployee},
		{ID: "0192f3a0-7c1e-7000-8000-000000000007", Name: "Fajar Nugroho", Department: "Sales", EmployeeCode: "EMP006", Role: employee.RoleEmployee},
	}
}

// Employees returns the roster members with the employee role
func Employees() []employee.Employee {
	var out []employee.Employee
	for _, e := range DemoRoster() {
		if e.Role == employee.RoleEmployee {
			out = append(out, e)
		}
	}
	return out
}
