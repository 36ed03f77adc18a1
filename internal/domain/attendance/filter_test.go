package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFilterRecords(t *testing.T) {
	all := []Attendance{
		record("e1", "2024-03-01", StatusPresent),
		record("e2", "2024-03-02", StatusLate),
		record("e1", "2024-03-03", StatusAbsent),
		record("e2", "2024-03-04", StatusPresent),
	}

	start, end := day("2024-03-02"), day("2024-03-03")
	present, late := StatusPresent, StatusLate

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no constraints", Filter{}, []int{0, 1, 2, 3}},
		{"window", Filter{StartDay: &start, EndDay: &end}, []int{1, 2}},
		{"open end", Filter{StartDay: &start}, []int{1, 2, 3}},
		{"employee", Filter{EmployeeID: strPtr("e2")}, []int{1, 3}},
		{"status", Filter{Status: &present}, []int{0, 3}},
		{"combined", Filter{StartDay: &start, EmployeeID: strPtr("e2"), Status: &late}, []int{1}},
		{"single day", ForDay(end), []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := make([]Attendance, len(all))
			copy(before, all)

			got := FilterRecords(all, tt.filter)
			want := make([]Attendance, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, all[i])
			}
			assert.Equal(t, want, got)
			assert.Equal(t, before, all, "input slice is not modified")
			assert.Equal(t, got, FilterRecords(got, tt.filter), "filtering twice gives the same result")
		})
	}
}

func TestFilter_ComparesCalendarDays(t *testing.T) {
	// late in the evening is still the same calendar day as the bound
	d := day("2024-03-02")
	evening := Attendance{EmployeeID: "e1", Date: d.Add(23 * time.Hour), Status: StatusPresent}
	assert.True(t, ForDay(d).Matches(evening))
}

func TestFilter_Validate(t *testing.T) {
	start, end := day("2024-03-05"), day("2024-03-01")
	bogus := Status("on-leave")

	err := Filter{StartDay: &start, EndDay: &end, Status: &bogus}.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "end_date")
	assert.Contains(t, errs.ToMap(), "status")

	assert.NoError(t, ForDay(start).Validate())
}

func TestRecordFilterRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := RecordFilterRequest{
			StartDate:    strPtr("2024-03-01"),
			EndDate:      strPtr("2024-03-31"),
			EmployeeCode: strPtr("EMP001"),
			Status:       strPtr("late"),
		}
		require.NoError(t, req.Validate())

		id := "e1"
		f := req.ToFilter(jakarta, &id)
		require.NotNil(t, f.StartDay)
		require.NotNil(t, f.EndDay)
		assert.Equal(t, day("2024-03-01"), *f.StartDay)
		assert.Equal(t, day("2024-03-31"), *f.EndDay)
		assert.Equal(t, StatusLate, *f.Status)
		assert.Equal(t, "e1", *f.EmployeeID)
	})

	t.Run("invalid", func(t *testing.T) {
		req := RecordFilterRequest{
			StartDate:    strPtr("2024-03-10"),
			EndDate:      strPtr("2024-03-01"),
			EmployeeCode: strPtr("!bad code"),
			Status:       strPtr("sick"),
		}
		var errs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &errs)
		m := errs.ToMap()
		assert.Contains(t, m, "end_date")
		assert.Contains(t, m, "employee_code")
		assert.Contains(t, m, "status")
	})

	t.Run("malformed date", func(t *testing.T) {
		req := RecordFilterRequest{StartDate: strPtr("03/01/2024")}
		var errs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &errs)
		assert.Contains(t, errs.ToMap(), "start_date")
	})

	t.Run("empty", func(t *testing.T) {
		req := RecordFilterRequest{}
		require.NoError(t, req.Validate())
		assert.Equal(t, Filter{}, req.ToFilter(jakarta, nil))
	})
}

func TestNormalizeDay(t *testing.T) {
	// 20:30 UTC on March 4 is already March 5 in Jakarta
	instant := time.Date(2024, 3, 4, 20, 30, 0, 0, time.UTC)
	d := NormalizeDay(instant, jakarta)

	assert.Equal(t, "2024-03-05", DayKey(d))
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, jakarta, d.Location())

	first, last := MonthBounds(2024, time.February, jakarta)
	assert.Equal(t, "2024-02-01", DayKey(first))
	assert.Equal(t, "2024-02-29", DayKey(last))
}

func TestStatusPolicy(t *testing.T) {
	d := day("2024-03-05")

	assert.Equal(t, StatusPresent, StatusPolicy{}.CheckInStatus(*at(d, 11, 0)))

	cutoff := 9*time.Hour + 15*time.Minute
	policy := StatusPolicy{LateCutoff: &cutoff}
	assert.Equal(t, StatusPresent, policy.CheckInStatus(*at(d, 9, 15)))
	assert.Equal(t, StatusLate, policy.CheckInStatus(at(d, 9, 15).Add(time.Second)))
}

func TestDeriveTodayStatus(t *testing.T) {
	d := day("2024-03-05")

	assert.Equal(t, TodayNotCheckedIn, DeriveTodayStatus(nil))
	assert.Equal(t, TodayNotCheckedIn, DeriveTodayStatus(&Attendance{Date: d, Status: StatusAbsent}))
	assert.Equal(t, TodayCheckedIn, DeriveTodayStatus(&Attendance{Date: d, CheckIn: at(d, 9, 0)}))
	assert.Equal(t, TodayCheckedOut, DeriveTodayStatus(&Attendance{Date: d, CheckIn: at(d, 9, 0), CheckOut: at(d, 17, 0)}))
}

func TestAttachEmployees(t *testing.T) {
	records := []Attendance{
		record("e2", "2024-03-05", StatusPresent),
		record("e1", "2024-03-05", StatusPresent),
		record("e2", "2024-03-04", StatusLate),
		record("ghost", "2024-03-04", StatusLate),
	}

	assert.Equal(t, []string{"e2", "e1", "ghost"}, EmployeeIDs(records))

	joined := AttachEmployees(records, []employee.Employee{roster[0], roster[1]})
	require.Len(t, joined, 4)
	assert.Equal(t, "Budi", *joined[0].EmployeeName)
	assert.Equal(t, "EMP001", *joined[1].EmployeeCode)
	assert.Equal(t, "Finance", *joined[2].Department)
	assert.Nil(t, joined[3].EmployeeName)
	assert.Nil(t, records[0].EmployeeName, "input records are not modified")
}

func TestToResponse(t *testing.T) {
	d := day("2024-03-05")
	name := "Ayu"
	att := Attendance{
		ID:           "a1",
		EmployeeID:   "e1",
		EmployeeName: &name,
		Date:         d,
		CheckIn:      at(d, 8, 50),
		CheckOut:     at(d, 17, 5),
		Status:       StatusPresent,
		CreatedAt:    *at(d, 8, 50),
		UpdatedAt:    *at(d, 17, 5),
	}

	resp := ToResponse(att, jakarta)
	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, "Ayu", resp.EmployeeName)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "2024-03-05T08:50:00+07:00", *resp.CheckInTime)
	require.NotNil(t, resp.WorkingHours)
	assert.Equal(t, 8.3, *resp.WorkingHours)

	att.CheckOut = nil
	open := ToResponse(att, jakarta)
	assert.Nil(t, open.CheckOutTime)
	assert.Nil(t, open.WorkingHours)
}
