package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

// newTestDatabase connects to TEST_DATABASE_URL, applies the schema and empties the tables.
// The test is skipped when no database is configured.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.EnsureSchema(ctx, db))
	truncateAllTables(t, db)
	return db
}

func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()

	_, err := db.Exec(context.Background(), "TRUNCATE TABLE attendances, employees CASCADE")
	require.NoError(t, err)
}

func seedDirectory(t *testing.T, db *database.DB) []employee.Employee {
	t.Helper()

	directory := []employee.Employee{
		{ID: "e1", Name: "Ayu", Department: "Engineering", EmployeeCode: "EMP001", Role: employee.RoleEmployee},
		{ID: "e2", Name: "Budi", Department: "Finance", EmployeeCode: "EMP002", Role: employee.RoleEmployee},
		{ID: "m1", Name: "Maya", Department: "Engineering", EmployeeCode: "MGR001", Role: employee.RoleManager},
	}
	require.NoError(t, postgresql.SeedEmployees(context.Background(), db, directory))
	return directory
}
