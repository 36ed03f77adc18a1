package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Filter narrows a record set. A nil field places no constraint on its dimension;
// set fields compose with AND. Day bounds are inclusive and compared by calendar day.
type Filter struct {
	StartDay   *time.Time
	EndDay     *time.Time
	EmployeeID *string
	Status     *Status
}

func (f Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDay != nil && f.EndDay != nil && DayKey(*f.EndDay) < DayKey(*f.StartDay) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.Status != nil && !f.Status.IsValid() {
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

// Matches reports whether a single record satisfies every set constraint.
func (f Filter) Matches(a Attendance) bool {
	day := DayKey(a.Date)
	if f.StartDay != nil && day < DayKey(*f.StartDay) {
		return false
	}
	if f.EndDay != nil && day > DayKey(*f.EndDay) {
		return false
	}
	if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	return true
}

// FilterRecords returns the matching records in their original order.
// all is never modified.
func FilterRecords(all []Attendance, f Filter) []Attendance {
	out := make([]Attendance, 0, len(all))
	for _, a := range all {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// ForDay is shorthand for the single-day window [day, day].
func ForDay(day time.Time) Filter {
	return Filter{StartDay: &day, EndDay: &day}
}
