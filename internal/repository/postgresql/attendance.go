package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns a store whose record dates are midnights in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, loc: loc}
}

const attendanceColumns = `id, employee_id, date, check_in, check_out, status, created_at, updated_at`

func (r *attendanceRepository) scan(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var date time.Time
	var status string
	err := row.Scan(
		&att.ID, &att.EmployeeID, &date, &att.CheckIn, &att.CheckOut,
		&status, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
	att.Status = attendance.Status(status)
	return att, nil
}

// FindByEmployeeAndDay implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2::date`

	att, err := r.scan(q.QueryRow(ctx, query, employeeID, attendance.DayKey(day.In(r.loc))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance for employee %s: %w", employeeID, err)
	}
	return att, nil
}

// FindAll implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindAll(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.StartDay != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", argIdx))
		args = append(args, attendance.DayKey(filter.StartDay.In(r.loc)))
		argIdx++
	}
	if filter.EndDay != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", argIdx))
		args = append(args, attendance.DayKey(filter.EndDay.In(r.loc)))
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		` + where + `
		ORDER BY date DESC, created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// Insert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Insert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
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

	query := `
		INSERT INTO attendances (id, employee_id, date, check_in, check_out, status, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
		RETURNING ` + attendanceColumns

	created, err := r.scan(q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		attendance.DayKey(att.Date.In(r.loc)),
		att.CheckIn,
		att.CheckOut,
		string(att.Status),
		att.CreatedAt,
		att.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Attendance{}, attendance.ErrDuplicateKey
		}
		return attendance.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return created, nil
}

// Update implements attendance.AttendanceRepository.
// Only the check-out and updated_at columns change, and only while check_out is still NULL.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	updatedAt := att.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	tag, err := q.Exec(ctx, `
		UPDATE attendances
		SET check_out = $2, updated_at = $3
		WHERE id = $1 AND check_out IS NULL
	`, att.ID, att.CheckOut, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update attendance %s: %w", att.ID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendances WHERE id = $1)`, att.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check attendance %s: %w", att.ID, err)
	}
	if !exists {
		return attendance.ErrAttendanceNotFound
	}
	return attendance.ErrAlreadyCheckedOut
}
