package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const (
	// ManagersTopic is the SSE topic that receives every check-in and check-out
	ManagersTopic = "managers"

	EventCheckedIn  = "attendance.checked_in"
	EventCheckedOut = "attendance.checked_out"

	recentDays = 7
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	hub    *sse.Hub
	policy attendance.StatusPolicy
	loc    *time.Location
	now    func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
	policy attendance.StatusPolicy,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		hub:                  hub,
		policy:               policy,
		loc:                  loc,
		now:                  now,
	}
}

func (s *AttendanceServiceImpl) today() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	return now, attendance.NormalizeDay(now, s.loc)
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if employeeID == "" {
		return attendance.AttendanceResponse{}, auth.ErrEmployeeIDRequired
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, day := s.today()

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	created, err := s.AttendanceRepository.Insert(ctx, attendance.Attendance{
		ID:         id.String(),
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    &now,
		Status:     s.policy.CheckInStatus(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateKey) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	created = attendance.AttachEmployees([]attendance.Attendance{created}, []employee.Employee{emp})[0]
	resp := attendance.ToResponse(created, s.loc)

	slog.Info("Employee checked in", "employee_id", employeeID, "date", resp.Date, "status", resp.Status)
	s.publish(EventCheckedIn, resp)

	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if employeeID == "" {
		return attendance.AttendanceResponse{}, auth.ErrEmployeeIDRequired
	}

	now, day := s.today()

	att, err := s.AttendanceRepository.FindByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	// an explicit absent record has nothing to close
	if att.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if att.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	att.CheckOut = &now
	att.UpdatedAt = now

	if err := s.AttendanceRepository.Update(ctx, att); err != nil {
		switch {
		case errors.Is(err, attendance.ErrAlreadyCheckedOut):
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	joined, err := s.join(ctx, []attendance.Attendance{att})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	resp := attendance.ToResponse(joined[0], s.loc)

	slog.Info("Employee checked out", "employee_id", employeeID, "date", resp.Date)
	s.publish(EventCheckedOut, resp)

	return resp, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	if employeeID == "" {
		return attendance.TodayStatusResponse{}, auth.ErrEmployeeIDRequired
	}

	_, day := s.today()
	record, err := s.findToday(ctx, employeeID, day)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	resp := attendance.TodayStatusResponse{
		Date:   attendance.DayKey(day),
		Status: attendance.DeriveTodayStatus(record),
	}
	if record != nil {
		r := attendance.ToResponse(*record, s.loc)
		resp.Attendance = &r
	}
	return resp, nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	if employeeID == "" {
		return nil, auth.ErrEmployeeIDRequired
	}

	records, err := s.AttendanceRepository.FindAll(ctx, attendance.Filter{EmployeeID: &employeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	joined, err := s.join(ctx, records)
	if err != nil {
		return nil, err
	}
	return attendance.ToResponses(joined, s.loc), nil
}

// GetMonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, employeeID string, month string) (attendance.MonthlySummaryResponse, error) {
	if employeeID == "" {
		return attendance.MonthlySummaryResponse{}, auth.ErrEmployeeIDRequired
	}

	now, _ := s.today()
	year, mon := now.Year(), now.Month()
	if month != "" {
		parsed, ok := validator.IsValidMonth(month)
		if !ok {
			return attendance.MonthlySummaryResponse{}, validator.ValidationErrors{{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			}}
		}
		year, mon = parsed.Year(), parsed.Month()
	}

	summary, err := s.summarize(ctx, employeeID, year, mon)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}
	return attendance.NewMonthlySummaryResponse(summary), nil
}

// GetEmployeeStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeStats(ctx context.Context, employeeID string) (attendance.EmployeeStatsResponse, error) {
	if employeeID == "" {
		return attendance.EmployeeStatsResponse{}, auth.ErrEmployeeIDRequired
	}

	now, day := s.today()

	record, err := s.findToday(ctx, employeeID, day)
	if err != nil {
		return attendance.EmployeeStatsResponse{}, err
	}

	summary, err := s.summarize(ctx, employeeID, now.Year(), now.Month())
	if err != nil {
		return attendance.EmployeeStatsResponse{}, err
	}

	start := day.AddDate(0, 0, -(recentDays - 1))
	recent, err := s.AttendanceRepository.FindAll(ctx, attendance.Filter{
		StartDay:   &start,
		EndDay:     &day,
		EmployeeID: &employeeID,
	})
	if err != nil {
		return attendance.EmployeeStatsResponse{}, fmt.Errorf("failed to list recent attendance: %w", err)
	}
	recent, err = s.join(ctx, recent)
	if err != nil {
		return attendance.EmployeeStatsResponse{}, err
	}

	return attendance.EmployeeStatsResponse{
		TodayStatus:      attendance.DeriveTodayStatus(record),
		MonthStats:       attendance.NewMonthlySummaryResponse(summary),
		RecentAttendance: attendance.ToResponses(recent, s.loc),
	}, nil
}

func (s *AttendanceServiceImpl) findToday(ctx context.Context, employeeID string, day time.Time) (*attendance.Attendance, error) {
	att, err := s.AttendanceRepository.FindByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return &att, nil
}

func (s *AttendanceServiceImpl) summarize(ctx context.Context, employeeID string, year int, month time.Month) (attendance.MonthlySummary, error) {
	first, last := attendance.MonthBounds(year, month, s.loc)
	records, err := s.AttendanceRepository.FindAll(ctx, attendance.Filter{
		StartDay:   &first,
		EndDay:     &last,
		EmployeeID: &employeeID,
	})
	if err != nil {
		return attendance.MonthlySummary{}, fmt.Errorf("failed to list monthly attendance: %w", err)
	}
	return attendance.Summarize(records, year, month), nil
}

func (s *AttendanceServiceImpl) join(ctx context.Context, records []attendance.Attendance) ([]attendance.Attendance, error) {
	if len(records) == 0 {
		return records, nil
	}
	employees, err := s.EmployeeRepository.ListByIDs(ctx, attendance.EmployeeIDs(records))
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	return attendance.AttachEmployees(records, employees), nil
}

func (s *AttendanceServiceImpl) publish(event string, resp attendance.AttendanceResponse) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(sse.Event{Topic: ManagersTopic, Event: event, Data: resp})
}
