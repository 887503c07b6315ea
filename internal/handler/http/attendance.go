package http

import (
	"net/http"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/handler/http/response"
)

type AttendanceHandler interface {
	GetDailyDetail(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// GetDailyDetail handles GET /attendance/daily
func (h *attendanceHandlerImpl) GetDailyDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := queryIntPtr(r, "user_id")
	if !ok {
		response.BadRequest(w, "invalid user_id parameter", nil)
		return
	}

	req := attendance.DailyDetailRequest{
		Date:          r.URL.Query().Get("date"),
		UserNumericID: userID,
		UserName:      queryStringPtr(r, "user_name"),
	}

	result, err := h.attendanceService.GetDailyDetail(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
