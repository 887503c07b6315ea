package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/report"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly day-by-user matrix
	GetMonthlyMatrix(w http.ResponseWriter, r *http.Request)

	// Per-site (user, work, machine) pivot
	GetSitePivot(w http.ResponseWriter, r *http.Request)

	// Per-user day groups
	GetUserDayGroups(w http.ResponseWriter, r *http.Request)

	// Site picker listing
	ListSites(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// queryStringPtr returns the named query param, nil when absent or empty.
func queryStringPtr(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func queryIntPtr(r *http.Request, name string) (*int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// GetMonthlyMatrix handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyMatrix(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	req := report.MonthlyMatrixRequest{
		Year:      year,
		Month:     month,
		SiteID:    queryStringPtr(r, "site_id"),
		SiteName:  queryStringPtr(r, "site_name"),
		MachineID: queryStringPtr(r, "machine_id"),
	}

	result, err := h.reportService.BuildMonthlyMatrix(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSitePivot handles GET /reports/site-pivot
func (h *reportHandlerImpl) GetSitePivot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	req := report.SitePivotRequest{
		Year:     year,
		Month:    month,
		SiteID:   queryStringPtr(r, "site_id"),
		SiteName: queryStringPtr(r, "site_name"),
	}
	if machines := r.URL.Query().Get("machine_ids"); machines != "" {
		for _, id := range strings.Split(machines, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.MachineIDs = append(req.MachineIDs, id)
			}
		}
	}

	result, err := h.reportService.BuildSitePivot(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetUserDayGroups handles GET /reports/user-days
func (h *reportHandlerImpl) GetUserDayGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := queryIntPtr(r, "user_id")
	if !ok {
		response.BadRequest(w, "invalid user_id parameter", nil)
		return
	}

	req := report.UserDayGroupsRequest{
		StartDate:     r.URL.Query().Get("start_date"),
		EndDate:       r.URL.Query().Get("end_date"),
		UserNumericID: userID,
		UserName:      queryStringPtr(r, "user_name"),
	}

	result, err := h.reportService.GroupUserDays(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListSites handles GET /sites
func (h *reportHandlerImpl) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.reportService.ListSites(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sites)
}
