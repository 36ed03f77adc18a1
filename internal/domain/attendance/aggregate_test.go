package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func day(s string) time.Time {
	d, err := ParseDay(s, jakarta)
	if err != nil {
		panic(err)
	}
	return d
}

func at(d time.Time, hour, minute int) *time.Time {
	t := d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return &t
}

func record(employeeID, date string, status Status) Attendance {
	d := day(date)
	a := Attendance{EmployeeID: employeeID, Date: d, Status: status}
	if status.Attended() {
		a.CheckIn = at(d, 9, 0)
	}
	return a
}

var roster = []employee.Employee{
	{ID: "e1", Name: "Ayu", Department: "Engineering", EmployeeCode: "EMP001", Role: employee.RoleEmployee},
	{ID: "e2", Name: "Budi", Department: "Finance", EmployeeCode: "EMP002", Role: employee.RoleEmployee},
	{ID: "e3", Name: "Citra", Department: "Engineering", EmployeeCode: "EMP003", Role: employee.RoleEmployee},
	{ID: "e4", Name: "Dewi", Department: "Sales", EmployeeCode: "EMP004", Role: employee.RoleEmployee},
}

func TestSummarize(t *testing.T) {
	d1, d2 := day("2024-03-01"), day("2024-03-02")
	records := []Attendance{
		{EmployeeID: "e1", Date: d1, Status: StatusPresent, CheckIn: at(d1, 8, 0), CheckOut: at(d1, 16, 30)},
		{EmployeeID: "e1", Date: d2, Status: StatusLate, CheckIn: at(d2, 9, 30), CheckOut: at(d2, 13, 0)},
		record("e1", "2024-03-03", StatusHalfDay),
		record("e1", "2024-03-04", StatusAbsent),
		record("e1", "2024-02-29", StatusPresent),
		record("e1", "2024-04-01", StatusPresent),
	}

	summary := Summarize(records, 2024, time.March)

	assert.Equal(t, "2024-03", summary.Month)
	assert.Equal(t, 4, summary.TotalDays)
	assert.Equal(t, 1, summary.Present)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.HalfDay)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, summary.TotalDays, summary.Present+summary.Late+summary.HalfDay+summary.Absent)
	assert.Equal(t, 12.0, summary.TotalHours)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, 2024, time.February)
	assert.Equal(t, MonthlySummary{Month: "2024-02"}, summary)
}

func TestBuildTeamSnapshot(t *testing.T) {
	target := day("2024-03-05")
	records := []Attendance{
		record("e1", "2024-03-05", StatusPresent),
		record("e2", "2024-03-05", StatusLate),
		record("e3", "2024-03-05", StatusAbsent),
		record("e4", "2024-03-04", StatusPresent),
		record("x9", "2024-03-05", StatusPresent),
	}

	t.Run("unified", func(t *testing.T) {
		s := BuildTeamSnapshot(target, roster, records, AbsenceUnified)
		assert.Equal(t, "2024-03-05", s.Date)
		assert.Equal(t, 4, s.TotalEmployees)
		assert.Equal(t, 1, s.Present)
		assert.Equal(t, 1, s.Late)
		assert.Equal(t, 0, s.HalfDay)
		assert.Equal(t, 2, s.Absent)
		assert.Equal(t, 50.0, s.AttendanceRate)
	})

	t.Run("legacy", func(t *testing.T) {
		s := BuildTeamSnapshot(target, roster, records, AbsenceLegacy)
		assert.Equal(t, 2, s.Present, "off-roster records still count")
		assert.Equal(t, 1, s.Late)
		assert.Equal(t, 0, s.Absent, "every day record reduces the absent count")
	})

	t.Run("empty roster", func(t *testing.T) {
		s := BuildTeamSnapshot(target, nil, nil, AbsenceUnified)
		assert.Equal(t, TeamSnapshot{Date: "2024-03-05"}, s)
	})
}

func TestBuildWeeklyTrend(t *testing.T) {
	start, end := day("2024-03-01"), day("2024-03-04")
	records := []Attendance{
		record("e2", "2024-03-03", StatusLate),
		record("e1", "2024-03-01", StatusPresent),
		record("e3", "2024-03-01", StatusAbsent),
		record("e1", "2024-03-03", StatusHalfDay),
		record("e1", "2024-02-28", StatusPresent),
		record("e1", "2024-03-05", StatusPresent),
	}

	trend := BuildWeeklyTrend(start, end, records, false)
	assert.Equal(t, []DayBucket{
		{Date: "2024-03-01", Present: 1, Absent: 1},
		{Date: "2024-03-03", Late: 1, HalfDay: 1},
	}, trend)

	filled := BuildWeeklyTrend(start, end, records, true)
	require.Len(t, filled, 4)
	assert.Equal(t, DayBucket{Date: "2024-03-02"}, filled[1])
	assert.Equal(t, DayBucket{Date: "2024-03-04"}, filled[3])

	assert.Empty(t, BuildWeeklyTrend(end, start, records, true))
}

func TestBuildDepartmentRollup(t *testing.T) {
	target := day("2024-03-05")
	records := []Attendance{
		record("e1", "2024-03-05", StatusPresent),
		record("e3", "2024-03-05", StatusAbsent),
		record("e2", "2024-03-05", StatusHalfDay),
		record("x9", "2024-03-05", StatusPresent),
	}

	rollup := BuildDepartmentRollup(target, roster, records, AbsenceUnified)
	assert.Equal(t, []DepartmentBucket{
		{Department: "Engineering", Total: 2, Present: 1, Absent: 1},
		{Department: "Finance", Total: 1, Present: 1, Absent: 0},
		{Department: "Sales", Total: 1, Present: 0, Absent: 1},
	}, rollup)

	legacy := BuildDepartmentRollup(target, roster, records, AbsenceLegacy)
	assert.Equal(t, 2, legacy[0].Present, "any record counts in legacy mode")

	for _, b := range rollup {
		assert.Equal(t, b.Total, b.Present+b.Absent)
	}
	assert.Empty(t, BuildDepartmentRollup(target, nil, records, AbsenceUnified))
}

func TestFindAbsentEmployees(t *testing.T) {
	target := day("2024-03-05")
	records := []Attendance{
		record("e1", "2024-03-05", StatusPresent),
		record("e3", "2024-03-05", StatusAbsent),
		record("e4", "2024-03-04", StatusPresent),
	}

	absent := FindAbsentEmployees(target, roster, records, AbsenceUnified)
	codes := make([]string, 0, len(absent))
	for _, e := range absent {
		codes = append(codes, e.EmployeeCode)
	}
	assert.Equal(t, []string{"EMP002", "EMP003", "EMP004"}, codes)

	legacy := FindAbsentEmployees(target, roster, records, AbsenceLegacy)
	assert.Len(t, legacy, 2)
}

func TestParseAbsenceMode(t *testing.T) {
	mode, err := ParseAbsenceMode("")
	require.NoError(t, err)
	assert.Equal(t, AbsenceUnified, mode)

	mode, err = ParseAbsenceMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, AbsenceLegacy, mode)

	_, err = ParseAbsenceMode("strict")
	assert.Error(t, err)
}
