package fixtures

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDemoRoster(t *testing.T) {
	roster := DemoRoster()

	ids := make(map[string]bool)
	codes := make(map[string]bool)
	managers := 0
	for _, e := range roster {
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		assert.False(t, codes[e.EmployeeCode], "duplicate code %s", e.EmployeeCode)
		ids[e.ID] = true
		codes[e.EmployeeCode] = true

		id, err := uuid.Parse(e.ID)
		assert.NoError(t, err, e.ID)
		assert.Equal(t, uuid.Version(7), id.Version(), e.ID)
		assert.True(t, validator.IsValidEmployeeCode(e.EmployeeCode), e.EmployeeCode)
		assert.True(t, e.Role.IsValid())
		assert.NotEmpty(t, e.Department)
		if e.Role == employee.RoleManager {
			managers++
		}
	}

	assert.Equal(t, 1, managers)
	assert.Len(t, Employees(), len(roster)-1)
}
