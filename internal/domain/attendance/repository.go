package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists one record per (employee, day).
// Uniqueness of the pair is enforced by the store itself.
type AttendanceRepository interface {
	// FindByEmployeeAndDay returns ErrAttendanceNotFound when the employee has no record for day.
	FindByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (Attendance, error)

	// FindAll returns records matching filter, newest day first.
	FindAll(ctx context.Context, filter Filter) ([]Attendance, error)

	// Insert fails with ErrDuplicateKey if the (employee, day) pair already exists.
	// The check and the write are a single atomic step.
	Insert(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update stores the check-out of an open record. It fails with ErrAlreadyCheckedOut
	// if the stored record is already closed and ErrAttendanceNotFound if it does not exist.
	Update(ctx context.Context, attendance Attendance) error
}
