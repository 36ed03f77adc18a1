package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"golang.org/x/sync/errgroup"
)

const trendDays = 7

var exportHeader = []string{"Date", "EmployeeId", "Name", "Department", "Status", "CheckIn", "CheckOut"}

// Options tunes how absences and trends are computed.
type Options struct {
	AbsenceMode attendance.AbsenceMode
	// FillEmptyDays emits zero buckets for days without records in the weekly trend.
	FillEmptyDays bool
}

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	opts Options
	loc  *time.Location
	now  func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	opts Options,
	loc *time.Location,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	if opts.AbsenceMode == "" {
		opts.AbsenceMode = attendance.AbsenceUnified
	}
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		opts:                 opts,
		loc:                  loc,
		now:                  now,
	}
}

func (s *ReportServiceImpl) today() time.Time {
	return attendance.NormalizeDay(s.now(), s.loc)
}

// resolveDay parses req.Date, defaulting to today
func (s *ReportServiceImpl) resolveDay(req report.DayRequest) (time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, err
	}
	if req.Date == "" {
		return s.today(), nil
	}
	return attendance.ParseDay(req.Date, s.loc)
}

// resolveFilter validates req and looks up the employee code, if any
func (s *ReportServiceImpl) resolveFilter(ctx context.Context, req attendance.RecordFilterRequest) (attendance.Filter, error) {
	if err := req.Validate(); err != nil {
		return attendance.Filter{}, err
	}

	var employeeID *string
	if req.EmployeeCode != nil && *req.EmployeeCode != "" {
		emp, err := s.EmployeeRepository.GetByEmployeeCode(ctx, *req.EmployeeCode)
		if err != nil {
			return attendance.Filter{}, err
		}
		employeeID = &emp.ID
	}

	filter := req.ToFilter(s.loc, employeeID)
	if err := filter.Validate(); err != nil {
		return attendance.Filter{}, err
	}
	return filter, nil
}

func (s *ReportServiceImpl) listJoined(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	records, err := s.AttendanceRepository.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}
	employees, err := s.EmployeeRepository.ListByIDs(ctx, attendance.EmployeeIDs(records))
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	return attendance.AttachEmployees(records, employees), nil
}

func (s *ReportServiceImpl) roster(ctx context.Context) ([]employee.Employee, error) {
	roster, err := s.EmployeeRepository.ListByRole(ctx, employee.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return roster, nil
}

// dayInputs loads the roster and the records of a single day
func (s *ReportServiceImpl) dayInputs(ctx context.Context, day time.Time) ([]employee.Employee, []attendance.Attendance, error) {
	roster, err := s.roster(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.AttendanceRepository.FindAll(ctx, attendance.ForDay(day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list attendance for %s: %w", attendance.DayKey(day), err)
	}
	return roster, records, nil
}

// ListRecords implements report.ReportService.
func (s *ReportServiceImpl) ListRecords(ctx context.Context, req attendance.RecordFilterRequest) ([]attendance.AttendanceResponse, error) {
	filter, err := s.resolveFilter(ctx, req)
	if err != nil {
		return nil, err
	}

	records, err := s.listJoined(ctx, filter)
	if err != nil {
		return nil, err
	}
	return attendance.ToResponses(records, s.loc), nil
}

// GetEmployeeHistory implements report.ReportService.
func (s *ReportServiceImpl) GetEmployeeHistory(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.FindAll(ctx, attendance.Filter{EmployeeID: &emp.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", emp.ID, err)
	}
	records = attendance.AttachEmployees(records, []employee.Employee{emp})
	return attendance.ToResponses(records, s.loc), nil
}

// GetTeamSnapshot implements report.ReportService.
func (s *ReportServiceImpl) GetTeamSnapshot(ctx context.Context, req report.DayRequest) (report.TeamSnapshotResponse, error) {
	day, err := s.resolveDay(req)
	if err != nil {
		return report.TeamSnapshotResponse{}, err
	}

	roster, records, err := s.dayInputs(ctx, day)
	if err != nil {
		return report.TeamSnapshotResponse{}, err
	}
	return report.NewTeamSnapshotResponse(attendance.BuildTeamSnapshot(day, roster, records, s.opts.AbsenceMode)), nil
}

// GetWeeklyTrend implements report.ReportService.
func (s *ReportServiceImpl) GetWeeklyTrend(ctx context.Context, req report.WeeklyTrendRequest) (report.WeeklyTrendResponse, error) {
	if err := req.Validate(); err != nil {
		return report.WeeklyTrendResponse{}, err
	}

	end := s.today()
	start := end.AddDate(0, 0, -(trendDays - 1))
	if req.StartDate != "" {
		var err error
		if start, err = attendance.ParseDay(req.StartDate, s.loc); err != nil {
			return report.WeeklyTrendResponse{}, err
		}
		if end, err = attendance.ParseDay(req.EndDate, s.loc); err != nil {
			return report.WeeklyTrendResponse{}, err
		}
	}

	return s.weeklyTrend(ctx, start, end)
}

func (s *ReportServiceImpl) weeklyTrend(ctx context.Context, start, end time.Time) (report.WeeklyTrendResponse, error) {
	records, err := s.AttendanceRepository.FindAll(ctx, attendance.Filter{StartDay: &start, EndDay: &end})
	if err != nil {
		return report.WeeklyTrendResponse{}, fmt.Errorf("failed to list attendance for trend: %w", err)
	}
	buckets := attendance.BuildWeeklyTrend(start, end, records, s.opts.FillEmptyDays)
	return report.NewWeeklyTrendResponse(start, end, buckets), nil
}

// GetDepartmentRollup implements report.ReportService.
func (s *ReportServiceImpl) GetDepartmentRollup(ctx context.Context, req report.DayRequest) (report.DepartmentRollupResponse, error) {
	day, err := s.resolveDay(req)
	if err != nil {
		return report.DepartmentRollupResponse{}, err
	}

	roster, records, err := s.dayInputs(ctx, day)
	if err != nil {
		return report.DepartmentRollupResponse{}, err
	}
	buckets := attendance.BuildDepartmentRollup(day, roster, records, s.opts.AbsenceMode)
	return report.NewDepartmentRollupResponse(day, buckets), nil
}

// GetAbsentEmployees implements report.ReportService.
func (s *ReportServiceImpl) GetAbsentEmployees(ctx context.Context, req report.DayRequest) (report.AbsentEmployeesResponse, error) {
	day, err := s.resolveDay(req)
	if err != nil {
		return report.AbsentEmployeesResponse{}, err
	}

	roster, records, err := s.dayInputs(ctx, day)
	if err != nil {
		return report.AbsentEmployeesResponse{}, err
	}
	return s.absentResponse(day, roster, records), nil
}

func (s *ReportServiceImpl) absentResponse(day time.Time, roster []employee.Employee, records []attendance.Attendance) report.AbsentEmployeesResponse {
	absent := attendance.FindAbsentEmployees(day, roster, records, s.opts.AbsenceMode)

	employees := make([]report.EmployeeResponse, 0, len(absent))
	for _, e := range absent {
		employees = append(employees, report.NewEmployeeResponse(e))
	}
	return report.AbsentEmployeesResponse{
		Date:      attendance.DayKey(day),
		Total:     len(employees),
		Employees: employees,
	}
}

// GetPresentEmployees implements report.ReportService.
func (s *ReportServiceImpl) GetPresentEmployees(ctx context.Context, req report.DayRequest) (report.PresentEmployeesResponse, error) {
	day, err := s.resolveDay(req)
	if err != nil {
		return report.PresentEmployeesResponse{}, err
	}

	records, err := s.listJoined(ctx, attendance.ForDay(day))
	if err != nil {
		return report.PresentEmployeesResponse{}, err
	}

	employees := make([]report.PresentEmployeeResponse, 0, len(records))
	for _, r := range records {
		if !r.Status.Attended() {
			continue
		}
		row := attendance.ToResponse(r, s.loc)
		employees = append(employees, report.PresentEmployeeResponse{
			EmployeeResponse: report.EmployeeResponse{
				ID:           r.EmployeeID,
				Name:         row.EmployeeName,
				EmployeeCode: row.EmployeeCode,
				Department:   row.Department,
			},
			Status:      r.Status,
			CheckInTime: row.CheckInTime,
		})
	}

	return report.PresentEmployeesResponse{
		Date:      attendance.DayKey(day),
		Total:     len(employees),
		Employees: employees,
	}, nil
}

// GetManagerDashboard implements report.ReportService.
// The roster and the week's records are loaded concurrently; today's figures are derived from the week.
func (s *ReportServiceImpl) GetManagerDashboard(ctx context.Context) (report.ManagerDashboardResponse, error) {
	today := s.today()
	start := today.AddDate(0, 0, -(trendDays - 1))

	var (
		roster []employee.Employee
		week   []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		roster, err = s.roster(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		week, err = s.AttendanceRepository.FindAll(gCtx, attendance.Filter{StartDay: &start, EndDay: &today})
		if err != nil {
			return fmt.Errorf("failed to list attendance for dashboard: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.ManagerDashboardResponse{}, err
	}

	todays := attendance.FilterRecords(week, attendance.ForDay(today))
	rollup := report.NewDepartmentRollupResponse(today, attendance.BuildDepartmentRollup(today, roster, todays, s.opts.AbsenceMode))

	return report.ManagerDashboardResponse{
		Snapshot:    report.NewTeamSnapshotResponse(attendance.BuildTeamSnapshot(today, roster, todays, s.opts.AbsenceMode)),
		WeeklyTrend: report.NewWeeklyTrendResponse(start, today, attendance.BuildWeeklyTrend(start, today, week, s.opts.FillEmptyDays)),
		Departments: rollup.Departments,
		Absent:      s.absentResponse(today, roster, todays),
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	filter, err := s.resolveFilter(ctx, req.Filter)
	if err != nil {
		return report.ExportFile{}, err
	}

	records, err := s.listJoined(ctx, filter)
	if err != nil {
		return report.ExportFile{}, err
	}

	table := export.Table{Header: exportHeader, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		table.Rows = append(table.Rows, s.exportRow(r))
	}

	stamp := s.now().In(s.loc).Format("20060102")
	file := report.ExportFile{Filename: fmt.Sprintf("attendance_report_%s.%s", stamp, req.Format)}

	switch req.Format {
	case report.ExportXLSX:
		file.ContentType = export.ContentTypeXLSX
		file.Body, err = export.XLSX("Attendance", table)
	default:
		file.ContentType = export.ContentTypeCSV
		file.Body, err = export.CSV(table)
	}
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	slog.Info("Attendance report exported", "format", req.Format, "rows", len(table.Rows))
	return file, nil
}

func (s *ReportServiceImpl) exportRow(r attendance.Attendance) []string {
	return []string{
		attendance.DayKey(r.Date),
		valueOr(r.EmployeeCode, r.EmployeeID),
		valueOr(r.EmployeeName, "-"),
		valueOr(r.Department, "-"),
		string(r.Status),
		s.clockTime(r.CheckIn),
		s.clockTime(r.CheckOut),
	}
}

func (s *ReportServiceImpl) clockTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(s.loc).Format("3:04:05 PM")
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
