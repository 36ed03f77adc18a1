package report

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// DAY REQUEST
// ========================================

// DayRequest selects a single calendar day. An empty Date means today.
type DayRequest struct {
	Date string `json:"date"`
}

func (r *DayRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

// ========================================
// TEAM SNAPSHOT
// ========================================

type TeamSnapshotResponse struct {
	Date           string  `json:"date"`
	TotalEmployees int     `json:"total_employees"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	HalfDay        int     `json:"half_day"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func NewTeamSnapshotResponse(s attendance.TeamSnapshot) TeamSnapshotResponse {
	return TeamSnapshotResponse{
		Date:           s.Date,
		TotalEmployees: s.TotalEmployees,
		Present:        s.Present,
		Late:           s.Late,
		HalfDay:        s.HalfDay,
		Absent:         s.Absent,
		AttendanceRate: s.AttendanceRate,
	}
}

// ========================================
// WEEKLY TREND
// ========================================

// WeeklyTrendRequest selects an inclusive day window. Both empty means the last 7 days.
type WeeklyTrendRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *WeeklyTrendRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	end, endOK := validator.IsValidDate(r.EndDate)

	if r.StartDate != "" && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if r.EndDate != "" && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if (r.StartDate == "") != (r.EndDate == "") {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be provided together",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayBucketResponse struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	HalfDay int    `json:"half_day"`
	Absent  int    `json:"absent"`
}

type WeeklyTrendResponse struct {
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Days      []DayBucketResponse `json:"days"`
}

func NewWeeklyTrendResponse(start, end time.Time, buckets []attendance.DayBucket) WeeklyTrendResponse {
	days := make([]DayBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, DayBucketResponse{
			Date:    b.Date,
			Present: b.Present,
			Late:    b.Late,
			HalfDay: b.HalfDay,
			Absent:  b.Absent,
		})
	}
	return WeeklyTrendResponse{
		StartDate: attendance.DayKey(start),
		EndDate:   attendance.DayKey(end),
		Days:      days,
	}
}

// ========================================
// DEPARTMENT ROLLUP
// ========================================

type DepartmentBucketResponse struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
}

type DepartmentRollupResponse struct {
	Date        string                     `json:"date"`
	Departments []DepartmentBucketResponse `json:"departments"`
}

func NewDepartmentRollupResponse(day time.Time, buckets []attendance.DepartmentBucket) DepartmentRollupResponse {
	departments := make([]DepartmentBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		departments = append(departments, DepartmentBucketResponse{
			Department: b.Department,
			Total:      b.Total,
			Present:    b.Present,
			Absent:     b.Absent,
		})
	}
	return DepartmentRollupResponse{
		Date:        attendance.DayKey(day),
		Departments: departments,
	}
}

// ========================================
// EMPLOYEE LISTS
// ========================================

type EmployeeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
	Department   string `json:"department"`
}

func NewEmployeeResponse(e employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		EmployeeCode: e.EmployeeCode,
		Department:   e.Department,
	}
}

type AbsentEmployeesResponse struct {
	Date      string             `json:"date"`
	Total     int                `json:"total"`
	Employees []EmployeeResponse `json:"employees"`
}

type PresentEmployeeResponse struct {
	EmployeeResponse
	Status      attendance.Status `json:"status"`
	CheckInTime *string           `json:"check_in_time,omitempty"`
}

type PresentEmployeesResponse struct {
	Date      string                    `json:"date"`
	Total     int                       `json:"total"`
	Employees []PresentEmployeeResponse `json:"employees"`
}

// ========================================
// MANAGER DASHBOARD
// ========================================

type ManagerDashboardResponse struct {
	Snapshot    TeamSnapshotResponse       `json:"snapshot"`
	WeeklyTrend WeeklyTrendResponse        `json:"weekly_trend"`
	Departments []DepartmentBucketResponse `json:"departments"`
	Absent      AbsentEmployeesResponse    `json:"absent"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	Format ExportFormat
	Filter attendance.RecordFilterRequest
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format != ExportCSV && r.Format != ExportXLSX {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	var filterErrs validator.ValidationErrors
	if err := r.Filter.Validate(); errors.As(err, &filterErrs) {
		errs = append(errs, filterErrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportFile is a rendered report ready to be written to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
