package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// ReportService defines the manager-facing read operations over the team's attendance.
type ReportService interface {
	// ListRecords returns filtered records joined with employee details, newest day first
	ListRecords(ctx context.Context, req attendance.RecordFilterRequest) ([]attendance.AttendanceResponse, error)

	// GetEmployeeHistory returns one employee's records, newest day first
	GetEmployeeHistory(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error)

	GetTeamSnapshot(ctx context.Context, req DayRequest) (TeamSnapshotResponse, error)
	GetWeeklyTrend(ctx context.Context, req WeeklyTrendRequest) (WeeklyTrendResponse, error)
	GetDepartmentRollup(ctx context.Context, req DayRequest) (DepartmentRollupResponse, error)
	GetAbsentEmployees(ctx context.Context, req DayRequest) (AbsentEmployeesResponse, error)
	GetPresentEmployees(ctx context.Context, req DayRequest) (PresentEmployeesResponse, error)

	// GetManagerDashboard combines today's snapshot, the last 7 days, the department rollup and the absent list
	GetManagerDashboard(ctx context.Context) (ManagerDashboardResponse, error)

	// Export renders the filtered records as CSV or XLSX
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}
