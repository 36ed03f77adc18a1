package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env            string
	Version        string
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-cmlabs"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(middleware.StripQueryToken)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		ja := JWTService.JWTAuth()

		r.Route("/attendance", func(r chi.Router) {
			// Employee self-service
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(ja))
				r.Use(middleware.AuthRequired(ja))
				r.Use(middleware.RequireEmployee)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/today", attendanceHandler.GetToday)
				r.Get("/history", attendanceHandler.GetHistory)
				r.Get("/summary", attendanceHandler.GetMonthlySummary)
				r.Get("/stats", attendanceHandler.GetStats)
			})

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(ja))
				r.Use(middleware.AuthRequired(ja))
				r.Use(middleware.RequireManager)
				r.Get("/records", reportHandler.ListRecords)
				r.Get("/employees/{id}", reportHandler.GetEmployeeHistory)
				r.Post("/stream/token", streamHandler.GetStreamToken)
			})

			// EventSource cannot set headers, so the stream takes a stream token as ?jwt=
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verify(ja, jwtauth.TokenFromHeader, middleware.TokenFromStrippedQuery))
				r.Use(middleware.StreamAuthRequired(ja))
				r.Use(middleware.RequireManager)
				r.Get("/stream", streamHandler.Stream)
			})
		})

		// Manager only
		r.Route("/reports", func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired(ja))
			r.Use(middleware.RequireManager)
			r.Get("/team-snapshot", reportHandler.GetTeamSnapshot)
			r.Get("/weekly-trend", reportHandler.GetWeeklyTrend)
			r.Get("/departments", reportHandler.GetDepartmentRollup)
			r.Get("/absent", reportHandler.GetAbsentEmployees)
			r.Get("/present", reportHandler.GetPresentEmployees)
			r.Get("/dashboard", reportHandler.GetDashboard)
			r.Get("/export", reportHandler.Export)
		})
	})
	return r
}
