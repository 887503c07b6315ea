package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
)

// siteInvalidator is the slice of the report service a correction needs:
// corrected rows may add or remove sites, so the cached listing must drop.
type siteInvalidator interface {
	InvalidateSites()
}

type SessionServiceImpl struct {
	repo     session.SessionRepository
	sites    siteInvalidator
	location *time.Location
}

func NewSessionService(repo session.SessionRepository, sites siteInvalidator, location *time.Location) session.SessionService {
	return &SessionServiceImpl{
		repo:     repo,
		sites:    sites,
		location: location,
	}
}

// ListSessions implements session.SessionService.
func (s *SessionServiceImpl) ListSessions(ctx context.Context, filter session.SessionFilter) (session.ListSessionsResponse, error) {
	if err := filter.Validate(); err != nil {
		return session.ListSessionsResponse{}, err
	}

	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return session.ListSessionsResponse{}, fmt.Errorf("list sessions: %w", err)
	}

	responses := make([]session.SessionResponse, 0, len(sessions))
	for _, row := range sessions {
		responses = append(responses, session.ToResponse(row))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return session.ListSessionsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Sessions:   responses,
	}, nil
}

// GetSession implements session.SessionService.
func (s *SessionServiceImpl) GetSession(ctx context.Context, id string) (session.SessionResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return session.SessionResponse{}, err
	}
	return session.ToResponse(row), nil
}

// UpdateSession implements session.SessionService. The patch is merged onto
// the stored row and written back whole.
func (s *SessionServiceImpl) UpdateSession(ctx context.Context, req session.UpdateSessionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	row, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	// A correction must stay attributable to someone; a row with no
	// identity field at all is dirty data to clean up at the source.
	if !row.Identity.HasAny() {
		return session.SessionResponse{}, session.ErrMissingIdentity
	}

	if req.Date != nil && *req.Date != "" {
		row.Date = *req.Date
	}
	if req.StartTime != nil && *req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return session.SessionResponse{}, fmt.Errorf("parse start_time: %w", err)
		}
		local := t.In(s.location)
		row.Start = &local
		// The stored explicit duration no longer describes the corrected
		// range; the derived value takes over.
		row.DurationMinutes = nil
	}
	if req.EndTime != nil && *req.EndTime != "" {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return session.SessionResponse{}, fmt.Errorf("parse end_time: %w", err)
		}
		local := t.In(s.location)
		row.End = &local
		row.DurationMinutes = nil
	}
	if req.Status != nil {
		row.RawStatus = strings.ToLower(*req.Status)
	}
	if req.WorkDescription != nil {
		row.WorkDescription = *req.WorkDescription
	}
	if req.MachineID != nil {
		if *req.MachineID == "" {
			row.Machine = session.Ref{}
		} else {
			// The stored display name belongs to the previous machine.
			id := *req.MachineID
			row.Machine = session.Ref{ID: &id}
		}
	}

	if row.Start != nil && row.End != nil && !row.End.After(*row.Start) {
		return session.SessionResponse{}, session.ErrInvalidRange
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return session.SessionResponse{}, err
	}

	s.sites.InvalidateSites()
	slog.Info("session corrected", "session_id", row.ID, "date", row.Date)

	return session.ToResponse(row), nil
}
