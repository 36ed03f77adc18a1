package attendance

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"

// EmployeeIDs returns the distinct employee ids of records in first-seen order.
func EmployeeIDs(records []Attendance) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; ok {
			continue
		}
		seen[r.EmployeeID] = struct{}{}
		ids = append(ids, r.EmployeeID)
	}
	return ids
}

// AttachEmployees fills the joined name, code and department of each record.
// Records of unknown employees keep nil joined fields.
func AttachEmployees(records []Attendance, employees []employee.Employee) []Attendance {
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	out := make([]Attendance, len(records))
	for i, r := range records {
		if e, ok := byID[r.EmployeeID]; ok {
			name, code, dept := e.Name, e.EmployeeCode, e.Department
			r.EmployeeName = &name
			r.EmployeeCode = &code
			r.Department = &dept
		}
		out[i] = r
	}
	return out
}
