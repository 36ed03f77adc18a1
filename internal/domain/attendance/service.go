package attendance

import (
	"context"
)

// AttendanceService defines the employee-facing attendance operations.
// employeeID always comes from the caller's session.
type AttendanceService interface {
	// CheckIn opens today's record
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// CheckOut closes today's record
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetTodayStatus labels today's record as not checked in, checked in or checked out
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// GetHistory lists every record of the employee, newest day first
	GetHistory(ctx context.Context, employeeID string) ([]AttendanceResponse, error)

	// GetMonthlySummary aggregates one month, month formatted YYYY-MM (empty = current month)
	GetMonthlySummary(ctx context.Context, employeeID string, month string) (MonthlySummaryResponse, error)

	// GetEmployeeStats combines today's status, this month's summary and the last 7 days
	GetEmployeeStats(ctx context.Context, employeeID string) (EmployeeStatsResponse, error)
}
