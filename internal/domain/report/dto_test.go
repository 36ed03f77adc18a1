package report

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	return errs.ToMap()
}

func TestWeeklyTrendRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    WeeklyTrendRequest
		fields []string
	}{
		{"default window", WeeklyTrendRequest{}, nil},
		{"explicit window", WeeklyTrendRequest{StartDate: "2024-03-01", EndDate: "2024-03-07"}, nil},
		{"single day", WeeklyTrendRequest{StartDate: "2024-03-01", EndDate: "2024-03-01"}, nil},
		{"only start", WeeklyTrendRequest{StartDate: "2024-03-01"}, []string{"start_date"}},
		{"only end", WeeklyTrendRequest{EndDate: "2024-03-01"}, []string{"start_date"}},
		{"reversed", WeeklyTrendRequest{StartDate: "2024-03-07", EndDate: "2024-03-01"}, []string{"end_date"}},
		{"malformed", WeeklyTrendRequest{StartDate: "2024-3-1", EndDate: "2024-03-07"}, []string{"start_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			fields := fieldsOf(t, err)
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestDayRequest_Validate(t *testing.T) {
	assert.NoError(t, (&DayRequest{}).Validate())
	assert.NoError(t, (&DayRequest{Date: "2024-02-29"}).Validate())
	assert.Contains(t, fieldsOf(t, (&DayRequest{Date: "2023-02-29"}).Validate()), "date")
}

func TestExportRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ExportRequest{Format: ExportXLSX}).Validate())

	bad := "2024/03/01"
	fields := fieldsOf(t, (&ExportRequest{
		Format: "pdf",
		Filter: attendance.RecordFilterRequest{StartDate: &bad},
	}).Validate())
	assert.Contains(t, fields, "format")
	assert.Contains(t, fields, "start_date")
}
