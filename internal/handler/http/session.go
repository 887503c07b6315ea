package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SessionHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService session.SessionService
}

func NewSessionHandler(sessionService session.SessionService) SessionHandler {
	return &sessionHandlerImpl{
		sessionService: sessionService,
	}
}

// List handles GET /sessions
func (h *sessionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := queryIntPtr(r, "user_id")
	if !ok {
		response.BadRequest(w, "invalid user_id parameter", nil)
		return
	}
	page, ok := queryIntPtr(r, "page")
	if !ok {
		response.BadRequest(w, "invalid page parameter", nil)
		return
	}
	limit, ok := queryIntPtr(r, "limit")
	if !ok {
		response.BadRequest(w, "invalid limit parameter", nil)
		return
	}

	filter := session.SessionFilter{
		StartDate:     r.URL.Query().Get("start_date"),
		EndDate:       r.URL.Query().Get("end_date"),
		UserNumericID: userID,
		UserName:      queryStringPtr(r, "user_name"),
		SiteID:        queryStringPtr(r, "site_id"),
		SiteName:      queryStringPtr(r, "site_name"),
		MachineID:     queryStringPtr(r, "machine_id"),
	}
	if page != nil {
		filter.Page = *page
	}
	if limit != nil {
		filter.Limit = *limit
	}

	result, err := h.sessionService.ListSessions(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Sessions, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetByID handles GET /sessions/{id}
func (h *sessionHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.sessionService.GetSession(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update handles PUT /sessions/{id}
func (h *sessionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq session.UpdateSessionRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("UpdateSession decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	result, err := h.sessionService.UpdateSession(r.Context(), updateReq)
	if err != nil {
		slog.Error("UpdateSession service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session updated successfully", result)
}
