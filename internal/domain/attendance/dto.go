package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	EmployeeCode string   `json:"employee_code,omitempty"`
	Department   string   `json:"department,omitempty"`
	Date         string   `json:"date"`
	CheckInTime  *string  `json:"check_in_time,omitempty"`
	CheckOutTime *string  `json:"check_out_time,omitempty"`
	WorkingHours *float64 `json:"working_hours,omitempty"`
	Status       Status   `json:"status"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ToResponse renders a record with instants shown in loc.
func ToResponse(att Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: deref(att.EmployeeName),
		EmployeeCode: deref(att.EmployeeCode),
		Department:   deref(att.Department),
		Date:         DayKey(att.Date),
		CheckInTime:  formatInstant(att.CheckIn, loc),
		CheckOutTime: formatInstant(att.CheckOut, loc),
		Status:       att.Status,
		CreatedAt:    att.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:    att.UpdatedAt.In(loc).Format(time.RFC3339),
	}
	if d, ok := att.WorkedDuration(); ok {
		hours := roundOneDecimal(d.Hours())
		resp.WorkingHours = &hours
	}
	return resp
}

// ToResponses maps records in order.
func ToResponses(atts []Attendance, loc *time.Location) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(atts))
	for _, att := range atts {
		responses = append(responses, ToResponse(att, loc))
	}
	return responses
}

func formatInstant(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type TodayStatusResponse struct {
	Date       string              `json:"date"`
	Status     TodayStatus         `json:"status"`
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
}

type MonthlySummaryResponse struct {
	Month      string  `json:"month"`
	TotalDays  int     `json:"total_days"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	HalfDay    int     `json:"half_day"`
	TotalHours float64 `json:"total_hours"`
}

func NewMonthlySummaryResponse(s MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse{
		Month:      s.Month,
		TotalDays:  s.TotalDays,
		Present:    s.Present,
		Absent:     s.Absent,
		Late:       s.Late,
		HalfDay:    s.HalfDay,
		TotalHours: s.TotalHours,
	}
}

// EmployeeStatsResponse backs the employee dashboard.
type EmployeeStatsResponse struct {
	TodayStatus      TodayStatus            `json:"today_status"`
	MonthStats       MonthlySummaryResponse `json:"month_stats"`
	RecentAttendance []AttendanceResponse   `json:"recent_attendance"`
}

// ========================================
// FILTER DTOs
// ========================================

// RecordFilterRequest is the raw manager filter as received from the query string.
type RecordFilterRequest struct {
	StartDate    *string `json:"start_date,omitempty"`    // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`      // YYYY-MM-DD
	EmployeeCode *string `json:"employee_code,omitempty"` // human-facing employee id
	Status       *string `json:"status,omitempty"`
}

func (f *RecordFilterRequest) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var hasStart, hasEnd bool

	if f.StartDate != nil && *f.StartDate != "" {
		if start, hasStart = validator.IsValidDate(*f.StartDate); !hasStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if end, hasEnd = validator.IsValidDate(*f.EndDate); !hasEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if hasStart && hasEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.EmployeeCode != nil && *f.EmployeeCode != "" && !validator.IsValidEmployeeCode(*f.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is not a valid employee code",
		})
	}

	if f.Status != nil && *f.Status != "" && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, late, half-day",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFilter converts a validated request. employeeID is the resolved employee code, if any.
func (f *RecordFilterRequest) ToFilter(loc *time.Location, employeeID *string) Filter {
	var filter Filter
	if f.StartDate != nil && *f.StartDate != "" {
		if day, err := ParseDay(*f.StartDate, loc); err == nil {
			filter.StartDay = &day
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if day, err := ParseDay(*f.EndDate, loc); err == nil {
			filter.EndDay = &day
		}
	}
	if f.Status != nil && *f.Status != "" {
		status := Status(*f.Status)
		filter.Status = &status
	}
	filter.EmployeeID = employeeID
	return filter
}
