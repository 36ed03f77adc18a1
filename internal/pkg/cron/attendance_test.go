package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func TestMaterializeAbsences(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository([]employee.Employee{
		{ID: "e1", Name: "Ayu", Department: "Engineering", EmployeeCode: "EMP001", Role: employee.RoleEmployee},
		{ID: "e2", Name: "Budi", Department: "Finance", EmployeeCode: "EMP002", Role: employee.RoleEmployee},
		{ID: "m1", Name: "Maya", Department: "Engineering", EmployeeCode: "MGR001", Role: employee.RoleManager},
	})
	repo := memory.NewAttendanceRepository()

	yesterday := time.Date(2024, 3, 4, 0, 0, 0, 0, jakarta)
	checkIn := yesterday.Add(9 * time.Hour)
	_, err := repo.Insert(ctx, attendance.Attendance{EmployeeID: "e1", Date: yesterday, CheckIn: &checkIn, Status: attendance.StatusPresent})
	require.NoError(t, err)

	now := time.Date(2024, 3, 5, 0, 30, 0, 0, jakarta)
	jobs := NewAttendanceJobs(repo, employees, jakarta, func() time.Time { return now }, nil)

	require.NoError(t, jobs.MaterializeAbsences(ctx))

	records, err := repo.FindAll(ctx, attendance.ForDay(yesterday))
	require.NoError(t, err)
	require.Len(t, records, 2, "managers are not on the roster")

	absent, err := repo.FindByEmployeeAndDay(ctx, "e2", yesterday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, absent.Status)
	assert.Nil(t, absent.CheckIn)

	present, err := repo.FindByEmployeeAndDay(ctx, "e1", yesterday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, present.Status)

	// a second run for the same day is a no-op
	require.NoError(t, jobs.MaterializeAbsences(ctx))
	records, err = repo.FindAll(ctx, attendance.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(nil)

	calls := 0
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})
	s.AddJob("fail", time.Hour, func(ctx context.Context) error {
		return assert.AnError
	})

	assert.Equal(t, []string{"count", "fail"}, s.Jobs())
	s.RunOnce(context.Background())
	assert.Equal(t, 1, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(nil)

	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	s.Start()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
