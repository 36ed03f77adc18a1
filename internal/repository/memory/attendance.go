package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Attendance // keyed by employee|day
	byID    map[string]string
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{
		records: make(map[string]attendance.Attendance),
		byID:    make(map[string]string),
	}
}

func recordKey(employeeID string, day time.Time) string {
	return employeeID + "|" + attendance.DayKey(day)
}

// FindByEmployeeAndDay implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	att, ok := r.records[recordKey(employeeID, day)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return clone(att), nil
}

// FindAll implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindAll(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	all := make([]attendance.Attendance, 0, len(r.records))
	for _, att := range r.records {
		all = append(all, clone(att))
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		di, dj := attendance.DayKey(all[i].Date), attendance.DayKey(all[j].Date)
		if di != dj {
			return di > dj
		}
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	return attendance.FilterRecords(all, filter), nil
}

// Insert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Insert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, err
		}
		att.ID = id.String()
	}
	now := time.Now()
	if att.CreatedAt.IsZero() {
		att.CreatedAt = now
	}
	if att.UpdatedAt.IsZero() {
		att.UpdatedAt = att.CreatedAt
	}

	key := recordKey(att.EmployeeID, att.Date)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrDuplicateKey
	}
	r.records[key] = clone(att)
	r.byID[att.ID] = key

	return clone(att), nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byID[att.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored := r.records[key]
	if stored.CheckOut != nil {
		return attendance.ErrAlreadyCheckedOut
	}

	stored.CheckOut = copyTime(att.CheckOut)
	stored.UpdatedAt = att.UpdatedAt
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	r.records[key] = stored
	return nil
}

func clone(a attendance.Attendance) attendance.Attendance {
	a.CheckIn = copyTime(a.CheckIn)
	a.CheckOut = copyTime(a.CheckOut)
	return a
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
