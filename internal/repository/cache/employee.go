package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

type cachedEmployee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	EmployeeCode string `json:"employee_code"`
	Role         string `json:"role"`
}

// employeeRepository caches roster listings in Redis. Point lookups go straight
// to the wrapped repository. Redis failures degrade to uncached reads.
type employeeRepository struct {
	employee.EmployeeRepository
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewEmployeeRepository(next employee.EmployeeRepository, client *goredis.Client, ttl time.Duration, logger *slog.Logger) employee.EmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &employeeRepository{
		EmployeeRepository: next,
		client:             client,
		ttl:                ttl,
		logger:             logger,
	}
}

func rosterKey(role employee.Role) string {
	return redis.Key("roster", string(role))
}

// ListByRole implements employee.EmployeeRepository.
func (r *employeeRepository) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	key := rosterKey(role)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []cachedEmployee
		if err := json.Unmarshal(data, &cached); err == nil {
			return fromCache(cached), nil
		}
		r.logger.Warn("Discarding unreadable roster cache entry", "key", key)
	case !errors.Is(err, goredis.Nil):
		r.logger.Warn("Roster cache read failed", "key", key, "error", err)
	}

	employees, err := r.EmployeeRepository.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(toCache(employees))
	if err != nil {
		return employees, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("Roster cache write failed", "key", key, "error", err)
	}
	return employees, nil
}

// InvalidateRoster drops the cached roster of role, e.g. after the directory is reseeded
func InvalidateRoster(ctx context.Context, client *goredis.Client, role employee.Role) error {
	return client.Del(ctx, rosterKey(role)).Err()
}

func toCache(employees []employee.Employee) []cachedEmployee {
	out := make([]cachedEmployee, 0, len(employees))
	for _, e := range employees {
		out = append(out, cachedEmployee{
			ID:           e.ID,
			Name:         e.Name,
			Department:   e.Department,
			EmployeeCode: e.EmployeeCode,
			Role:         string(e.Role),
		})
	}
	return out
}

func fromCache(cached []cachedEmployee) []employee.Employee {
	out := make([]employee.Employee, 0, len(cached))
	for _, c := range cached {
		out = append(out, employee.Employee{
			ID:           c.ID,
			Name:         c.Name,
			Department:   c.Department,
			EmployeeCode: c.EmployeeCode,
			Role:         employee.Role(c.Role),
		})
	}
	return out
}
