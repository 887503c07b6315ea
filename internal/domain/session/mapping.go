package session

import (
	"strings"
	"time"
)

// ToResponse converts a Session to its wire shape.
func ToResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		UserID:          s.Identity.NumericID,
		UserName:        s.Identity.Name,
		Date:            s.Date,
		StartTime:       formatTimePtr(s.Start),
		EndTime:         formatTimePtr(s.End),
		DurationMinutes: s.DurationMinutes,
		SiteID:          s.Site.ID,
		SiteName:        s.Site.Name,
		MachineID:       s.Machine.ID,
		MachineName:     s.Machine.Name,
		WorkDescription: s.WorkDescription,
		Status:          string(NormalizeStatus(s.RawStatus)),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

// Matches re-validates a session against a filter locally. Upstream filters
// are best-effort (text match vs exact match semantics can differ), so every
// consumer re-checks here before aggregating.
func (s Session) Matches(f SessionFilter) bool {
	if f.StartDate != "" && s.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && s.Date > f.EndDate {
		return false
	}
	if f.UserNumericID != nil {
		if s.Identity.NumericID == nil || *s.Identity.NumericID != *f.UserNumericID {
			return false
		}
	}
	if f.UserName != nil && *f.UserName != "" {
		if s.Identity.Name == nil || !strings.EqualFold(strings.TrimSpace(*s.Identity.Name), strings.TrimSpace(*f.UserName)) {
			return false
		}
	}
	if f.SiteID != nil && *f.SiteID != "" {
		if s.Site.ID == nil || *s.Site.ID != *f.SiteID {
			return false
		}
	}
	if f.SiteName != nil && *f.SiteName != "" {
		if s.Site.Name == nil || !strings.EqualFold(strings.TrimSpace(*s.Site.Name), strings.TrimSpace(*f.SiteName)) {
			return false
		}
	}
	if f.MachineID != nil && *f.MachineID != "" {
		if s.Machine.ID == nil || *s.Machine.ID != *f.MachineID {
			return false
		}
	}
	return true
}
