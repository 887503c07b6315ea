package attendance

import (
	"context"
	"fmt"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
)

type AttendanceServiceImpl struct {
	sessionRepo session.SessionRepository
	resolver    directory.BreakPolicyResolver
	calcConfig  attendance.CalcConfig
}

func NewAttendanceService(
	sessionRepo session.SessionRepository,
	resolver directory.BreakPolicyResolver,
	calcConfig attendance.CalcConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		sessionRepo: sessionRepo,
		resolver:    resolver,
		calcConfig:  calcConfig,
	}
}

// GetDailyDetail implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDailyDetail(ctx context.Context, req attendance.DailyDetailRequest) (attendance.DailyDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DailyDetailResponse{}, err
	}

	filter := session.SessionFilter{
		StartDate:     req.Date,
		EndDate:       req.Date,
		UserNumericID: req.UserNumericID,
		UserName:      req.UserName,
	}

	fetched, err := a.sessionRepo.FetchRange(ctx, filter)
	if err != nil {
		return attendance.DailyDetailResponse{}, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	// Upstream filtering is best-effort; re-check locally.
	sessions := make([]session.Session, 0, len(fetched))
	for _, s := range fetched {
		if s.Matches(filter) {
			sessions = append(sessions, s)
		}
	}

	policy := a.resolver.Resolve(ctx, bestIdentity(sessions, req))
	summary := ComputeDay(req.Date, sessions, policy.ExcludeBreakDeduction, a.calcConfig)

	responses := make([]session.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, session.ToResponse(s))
	}

	return attendance.DailyDetailResponse{
		Summary:  summary,
		Sessions: responses,
	}, nil
}

// bestIdentity assembles the richest identity available for policy
// resolution: fields from the fetched sessions win over the request's,
// record references first.
func bestIdentity(sessions []session.Session, req attendance.DailyDetailRequest) directory.IdentityRef {
	ref := directory.IdentityRef{
		NumericID: req.UserNumericID,
		Name:      req.UserName,
	}
	for _, s := range sessions {
		if ref.RecordID == nil && s.Identity.RecordID != nil {
			ref.RecordID = s.Identity.RecordID
		}
		if ref.NumericID == nil && s.Identity.NumericID != nil {
			ref.NumericID = s.Identity.NumericID
		}
		if ref.Name == nil && s.Identity.Name != nil {
			ref.Name = s.Identity.Name
		}
	}
	return ref
}
