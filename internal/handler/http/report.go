package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Records
	ListRecords(w http.ResponseWriter, r *http.Request)
	GetEmployeeHistory(w http.ResponseWriter, r *http.Request)

	// Aggregations
	GetTeamSnapshot(w http.ResponseWriter, r *http.Request)
	GetWeeklyTrend(w http.ResponseWriter, r *http.Request)
	GetDepartmentRollup(w http.ResponseWriter, r *http.Request)
	GetAbsentEmployees(w http.ResponseWriter, r *http.Request)
	GetPresentEmployees(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)

	// Export
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ListRecords handles GET /attendance/records
func (h *reportHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ListRecords(r.Context(), parseRecordFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeHistory handles GET /attendance/employees/{id}
func (h *reportHandlerImpl) GetEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "employee id is required", nil)
		return
	}

	result, err := h.reportService.GetEmployeeHistory(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTeamSnapshot handles GET /reports/team-snapshot
func (h *reportHandlerImpl) GetTeamSnapshot(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetTeamSnapshot(r.Context(), parseDayRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetWeeklyTrend handles GET /reports/weekly-trend
func (h *reportHandlerImpl) GetWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	req := report.WeeklyTrendRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.reportService.GetWeeklyTrend(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDepartmentRollup handles GET /reports/departments
func (h *reportHandlerImpl) GetDepartmentRollup(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDepartmentRollup(r.Context(), parseDayRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAbsentEmployees handles GET /reports/absent
func (h *reportHandlerImpl) GetAbsentEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetAbsentEmployees(r.Context(), parseDayRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPresentEmployees handles GET /reports/present
func (h *reportHandlerImpl) GetPresentEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetPresentEmployees(r.Context(), parseDayRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDashboard handles GET /reports/dashboard
func (h *reportHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetManagerDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /reports/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(report.ExportCSV)
	}

	req := report.ExportRequest{
		Format: report.ExportFormat(format),
		Filter: parseRecordFilter(r),
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		slog.Error("Failed to write export body", "filename", file.Filename, "error", err)
	}
}

func parseDayRequest(r *http.Request) report.DayRequest {
	return report.DayRequest{Date: r.URL.Query().Get("date")}
}

func parseRecordFilter(r *http.Request) attendance.RecordFilterRequest {
	var filter attendance.RecordFilterRequest

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if employeeCode := r.URL.Query().Get("employee_code"); employeeCode != "" {
		filter.EmployeeCode = &employeeCode
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	return filter
}
