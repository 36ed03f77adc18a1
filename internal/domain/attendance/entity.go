package attendance

import (
	"time"
)

type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined from the employee directory, read-only
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// WorkedDuration returns CheckOut-CheckIn when both are set.
func (a Attendance) WorkedDuration() (time.Duration, bool) {
	if a.CheckIn == nil || a.CheckOut == nil {
		return 0, false
	}
	return a.CheckOut.Sub(*a.CheckIn), true
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

var validStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusHalfDay),
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Attended reports whether the status means the employee showed up that day.
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusLate || s == StatusHalfDay
}

// TodayStatus is a view label derived from today's record, distinct from Status.
type TodayStatus string

const (
	TodayNotCheckedIn TodayStatus = "NOT_CHECKED_IN"
	TodayCheckedIn    TodayStatus = "CHECKED_IN"
	TodayCheckedOut   TodayStatus = "CHECKED_OUT"
)

// DeriveTodayStatus labels the (possibly missing) record of the current day.
// An explicit absent record without a check-in reads as not checked in.
func DeriveTodayStatus(record *Attendance) TodayStatus {
	switch {
	case record == nil || record.CheckIn == nil:
		return TodayNotCheckedIn
	case record.CheckOut != nil:
		return TodayCheckedOut
	default:
		return TodayCheckedIn
	}
}
