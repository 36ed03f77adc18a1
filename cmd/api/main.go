package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/redis"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "attendance-cmlabs"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	attendanceRepo, employeeRepo, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open stores", "driver", cfg.App.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStores()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub(32)

	policy := attendance.StatusPolicy{LateCutoff: cfg.Attendance.LateCutoff}
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, hub, policy, cfg.App.Location, time.Now)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo, reportService.Options{
		AbsenceMode:   cfg.Attendance.AbsenceMode,
		FillEmptyDays: cfg.Attendance.TrendFillEmpty,
	}, cfg.App.Location, time.Now)

	if cfg.Attendance.MaterializeAbsences {
		scheduler := cron.NewScheduler(logger)
		cron.NewAttendanceJobs(attendanceRepo, employeeRepo, cfg.App.Location, time.Now, logger).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewStreamHandler(JWTService, hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Initiating graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown HTTP server", "error", err)
		}
	}()

	slog.Info("Server running", "addr", server.Addr, "store", cfg.App.StoreDriver, "timezone", cfg.App.Timezone)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}

// openStores builds the attendance and employee repositories for the configured driver.
func openStores(ctx context.Context, cfg *config.Config) (attendance.AttendanceRepository, employee.EmployeeRepository, func(), error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		slog.Warn("Using in-memory store; records are lost on restart")
		return memory.NewAttendanceRepository(), memory.NewEmployeeRepository(fixtures.DemoRoster()), func() {}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, nil, nil, err
	}
	closers := []func(){db.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		closeAll()
		return nil, nil, nil, err
	}

	if cfg.IsDevelopment() {
		if err := postgresql.SeedEmployees(ctx, db, fixtures.DemoRoster()); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		slog.Info("Demo roster seeded", "count", len(fixtures.DemoRoster()))
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db, cfg.App.Location)
	var employeeRepo employee.EmployeeRepository = postgresql.NewEmployeeRepository(db)

	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })

		if err := cache.InvalidateRoster(ctx, client, employee.RoleEmployee); err != nil {
			slog.Warn("Failed to invalidate roster cache", "error", err)
		}
		employeeRepo = cache.NewEmployeeRepository(employeeRepo, client, cfg.Redis.RosterCacheTTL, slog.Default())
		slog.Info("Roster cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.RosterCacheTTL)
	}

	return attendanceRepo, employeeRepo, closeAll, nil
}
