package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	loc            *time.Location
	now            func() time.Time
	logger         *slog.Logger

	mu         sync.Mutex
	lastMarked string
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
	now func() time.Time,
	logger *slog.Logger,
) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		loc:            loc,
		now:            now,
		logger:         logger,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("materialize_absences", 1*time.Hour, j.MaterializeAbsences)
}

// MaterializeAbsences stores an explicit absent record for every roster employee
// without a record on the previous business day. Each day is processed once per process;
// records created concurrently by a check-in or another instance are left alone.
func (j *AttendanceJobs) MaterializeAbsences(ctx context.Context) error {
	yesterday := attendance.NormalizeDay(j.now(), j.loc).AddDate(0, 0, -1)
	key := attendance.DayKey(yesterday)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastMarked == key {
		return nil
	}

	roster, err := j.employeeRepo.ListByRole(ctx, employee.RoleEmployee)
	if err != nil {
		return fmt.Errorf("failed to list roster: %w", err)
	}

	records, err := j.attendanceRepo.FindAll(ctx, attendance.ForDay(yesterday))
	if err != nil {
		return fmt.Errorf("failed to list records for %s: %w", key, err)
	}

	hasRecord := make(map[string]bool, len(records))
	for _, r := range records {
		hasRecord[r.EmployeeID] = true
	}

	marked := 0
	for _, emp := range roster {
		if hasRecord[emp.ID] {
			continue
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate attendance id: %w", err)
		}
		now := j.now()
		_, err = j.attendanceRepo.Insert(ctx, attendance.Attendance{
			ID:         id.String(),
			EmployeeID: emp.ID,
			Date:       yesterday,
			Status:     attendance.StatusAbsent,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateKey) {
				continue
			}
			return fmt.Errorf("failed to mark %s absent on %s: %w", emp.ID, key, err)
		}
		marked++
	}

	j.lastMarked = key
	j.logger.Info("Absences materialized", "date", key, "count", marked)
	return nil
}
