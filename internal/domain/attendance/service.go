package attendance

import "context"

// AttendanceService exposes the daily attendance figures.
type AttendanceService interface {
	// GetDailyDetail computes one worker's day summary plus the raw
	// session list it came from.
	GetDailyDetail(ctx context.Context, req DailyDetailRequest) (DailyDetailResponse, error)
}
