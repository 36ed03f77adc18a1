package attendance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// AbsenceMode selects how a day's absentees are counted across the snapshot,
// the department rollup and the absent list.
type AbsenceMode string

const (
	// AbsenceUnified: a roster employee is absent iff they have no record for the day
	// or their record has status absent. Only roster members are counted.
	AbsenceUnified AbsenceMode = "unified"

	// AbsenceLegacy: absent = roster size - records on the day, and any record
	// (an explicit absent one included) counts as attendance.
	AbsenceLegacy AbsenceMode = "legacy"
)

func ParseAbsenceMode(s string) (AbsenceMode, error) {
	switch AbsenceMode(s) {
	case "", AbsenceUnified:
		return AbsenceUnified, nil
	case AbsenceLegacy:
		return AbsenceLegacy, nil
	}
	return "", fmt.Errorf("unknown absence mode %q", s)
}

// MonthlySummary counts one employee's records inside a calendar month.
// Present+Absent+Late+HalfDay always equals TotalDays.
type MonthlySummary struct {
	Month      string
	TotalDays  int
	Present    int
	Absent     int
	Late       int
	HalfDay    int
	TotalHours float64
}

// Summarize aggregates the records dated inside year/month. Worked hours are summed
// over records with both check-in and check-out and rounded to one decimal at the end.
func Summarize(records []Attendance, year int, month time.Month) MonthlySummary {
	prefix := fmt.Sprintf("%04d-%02d", year, int(month))
	summary := MonthlySummary{Month: prefix}

	var worked time.Duration
	for _, a := range records {
		if DayKey(a.Date)[:7] != prefix {
			continue
		}

		switch a.Status {
		case StatusPresent:
			summary.Present++
		case StatusAbsent:
			summary.Absent++
		case StatusLate:
			summary.Late++
		case StatusHalfDay:
			summary.HalfDay++
		default:
			continue
		}
		summary.TotalDays++

		if d, ok := a.WorkedDuration(); ok {
			worked += d
		}
	}

	summary.TotalHours = roundOneDecimal(worked.Hours())
	return summary
}

// TeamSnapshot holds aggregated counts for a single day.
type TeamSnapshot struct {
	Date           string
	TotalEmployees int
	Present        int
	Late           int
	HalfDay        int
	Absent         int
	AttendanceRate float64
}

// BuildTeamSnapshot counts the day's attendance against the roster.
func BuildTeamSnapshot(day time.Time, roster []employee.Employee, records []Attendance, mode AbsenceMode) TeamSnapshot {
	key := DayKey(day)
	snapshot := TeamSnapshot{Date: key, TotalEmployees: len(roster)}

	if mode == AbsenceLegacy {
		dayRecords := 0
		for _, a := range records {
			if DayKey(a.Date) != key {
				continue
			}
			dayRecords++
			countStatus(&snapshot, a.Status)
		}
		snapshot.Absent = max(len(roster)-dayRecords, 0)
		snapshot.AttendanceRate = percent(snapshot.Present+snapshot.Late+snapshot.HalfDay, len(roster))
		return snapshot
	}

	statuses := rosterStatuses(key, roster, records)
	attended := 0
	for _, status := range statuses {
		countStatus(&snapshot, status)
		if status.Attended() {
			attended++
		}
	}
	snapshot.Absent = len(roster) - attended
	snapshot.AttendanceRate = percent(attended, len(roster))
	return snapshot
}

func countStatus(s *TeamSnapshot, status Status) {
	switch status {
	case StatusPresent:
		s.Present++
	case StatusLate:
		s.Late++
	case StatusHalfDay:
		s.HalfDay++
	}
}

// DayBucket is one calendar day of the trend.
type DayBucket struct {
	Date    string
	Present int
	Late    int
	HalfDay int
	Absent  int
}

// BuildWeeklyTrend buckets records by calendar day over the inclusive window
// [start, end], ascending by day. Records outside the window are ignored.
// Days without records are omitted unless fillEmpty is set.
func BuildWeeklyTrend(start, end time.Time, records []Attendance, fillEmpty bool) []DayBucket {
	startKey, endKey := DayKey(start), DayKey(end)
	if endKey < startKey {
		return []DayBucket{}
	}

	buckets := make(map[string]*DayBucket)
	if fillEmpty {
		for d := civilDay(start); DayKey(d) <= endKey; d = d.AddDate(0, 0, 1) {
			k := DayKey(d)
			buckets[k] = &DayBucket{Date: k}
		}
	}

	for _, a := range records {
		k := DayKey(a.Date)
		if k < startKey || k > endKey {
			continue
		}
		b, ok := buckets[k]
		if !ok {
			b = &DayBucket{Date: k}
			buckets[k] = b
		}
		switch a.Status {
		case StatusPresent:
			b.Present++
		case StatusLate:
			b.Late++
		case StatusHalfDay:
			b.HalfDay++
		case StatusAbsent:
			b.Absent++
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trend := make([]DayBucket, 0, len(keys))
	for _, k := range keys {
		trend = append(trend, *buckets[k])
	}
	return trend
}

// DepartmentBucket is the rollup of one department for a day.
// Present+Absent always equals Total.
type DepartmentBucket struct {
	Department string
	Total      int
	Present    int
	Absent     int
}

// BuildDepartmentRollup starts every roster department fully absent and moves each
// attending employee to present. Departments keep their first-appearance roster order.
// Records of employees outside the roster are ignored.
func BuildDepartmentRollup(day time.Time, roster []employee.Employee, records []Attendance, mode AbsenceMode) []DepartmentBucket {
	key := DayKey(day)

	index := make(map[string]int)
	rollup := make([]DepartmentBucket, 0)
	deptOf := make(map[string]string, len(roster))
	for _, emp := range roster {
		i, ok := index[emp.Department]
		if !ok {
			i = len(rollup)
			index[emp.Department] = i
			rollup = append(rollup, DepartmentBucket{Department: emp.Department})
		}
		rollup[i].Total++
		rollup[i].Absent++
		deptOf[emp.ID] = emp.Department
	}

	counted := make(map[string]bool)
	for _, a := range records {
		if DayKey(a.Date) != key {
			continue
		}
		dept, known := deptOf[a.EmployeeID]
		if !known || counted[a.EmployeeID] {
			continue
		}
		if mode != AbsenceLegacy && !a.Status.Attended() {
			continue
		}
		counted[a.EmployeeID] = true
		i := index[dept]
		rollup[i].Absent--
		rollup[i].Present++
	}

	return rollup
}

// FindAbsentEmployees lists roster employees counted absent on day, in roster order.
func FindAbsentEmployees(day time.Time, roster []employee.Employee, records []Attendance, mode AbsenceMode) []employee.Employee {
	key := DayKey(day)

	hasRecord := make(map[string]Status)
	for _, a := range records {
		if DayKey(a.Date) == key {
			hasRecord[a.EmployeeID] = a.Status
		}
	}

	absent := make([]employee.Employee, 0)
	for _, emp := range roster {
		status, ok := hasRecord[emp.ID]
		switch {
		case !ok:
			absent = append(absent, emp)
		case mode != AbsenceLegacy && !status.Attended():
			absent = append(absent, emp)
		}
	}
	return absent
}

// rosterStatuses maps each roster employee with a record on the day to its status.
func rosterStatuses(key string, roster []employee.Employee, records []Attendance) map[string]Status {
	onRoster := make(map[string]struct{}, len(roster))
	for _, emp := range roster {
		onRoster[emp.ID] = struct{}{}
	}

	statuses := make(map[string]Status)
	for _, a := range records {
		if DayKey(a.Date) != key {
			continue
		}
		if _, ok := onRoster[a.EmployeeID]; ok {
			statuses[a.EmployeeID] = a.Status
		}
	}
	return statuses
}

// civilDay drops the location so that stepping by days is unaffected by DST.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return roundOneDecimal(float64(part) / float64(whole) * 100)
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
