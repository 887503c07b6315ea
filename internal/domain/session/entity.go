package session

import (
	"strings"
	"time"
)

// Status is the normalized lifecycle state of a punch session.
type Status string

const (
	StatusClosed  Status = "closed"
	StatusOpen    Status = "open"
	StatusUnknown Status = "unknown"
	StatusOther   Status = "other"
)

// NormalizeStatus folds a raw status string into the closed set of states.
// Anything that is neither closed nor open is an anomaly signal for the
// daily calculator.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "closed":
		return StatusClosed
	case "open":
		return StatusOpen
	case "":
		return StatusUnknown
	default:
		return StatusOther
	}
}

// Identity is the who-is-this reference a session carries. The fields are
// NOT interchangeable keys: RecordID > NumericID > Name is the resolution
// precedence everywhere in the system. At least one must be present.
type Identity struct {
	RecordID  *string
	NumericID *int
	Name      *string
}

// HasAny reports whether at least one identity field is present.
func (id Identity) HasAny() bool {
	return id.RecordID != nil || id.NumericID != nil || id.Name != nil
}

// Ref is a linked-record reference: an id and a display name, independently
// nullable. Used for sites and machines.
type Ref struct {
	ID   *string
	Name *string
}

// Key returns the best available key for grouping: id first, then name.
// Empty when both are absent.
func (r Ref) Key() string {
	if r.ID != nil && *r.ID != "" {
		return *r.ID
	}
	if r.Name != nil {
		return *r.Name
	}
	return ""
}

// Session is one continuous clock-in-to-clock-out record for one worker,
// already normalized at the repository boundary. The engine never mutates
// sessions; it only derives aggregates from them.
type Session struct {
	ID       string
	Identity Identity

	// Date is the YYYY-MM-DD calendar date the session is attributed to,
	// in the single site-local zone.
	Date string

	Start *time.Time
	End   *time.Time

	// DurationMinutes is the explicit stored duration when the upstream
	// record carries one; otherwise derived from Start/End.
	DurationMinutes *int

	Site    Ref
	Machine Ref

	WorkDescription string

	// RawStatus is the upstream status string before normalization.
	RawStatus string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RawMinutes resolves the session's raw duration in minutes using the fixed
// priority: explicit duration, then the start/end difference. Returns 0 when
// neither source is usable.
func (s Session) RawMinutes() float64 {
	if s.DurationMinutes != nil {
		return float64(*s.DurationMinutes)
	}
	if s.Start != nil && s.End != nil && s.End.After(*s.Start) {
		return s.End.Sub(*s.Start).Minutes()
	}
	return 0
}
