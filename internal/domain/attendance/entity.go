package attendance

// DaySummary is the derived attendance figure for one worker on one date.
// Invariant: NetMinutes <= ActiveMinutes <= GrossMinutes whenever
// GrossMinutes is defined, and RoundedMinutes >= 0.
type DaySummary struct {
	Date string `json:"date"`

	// ActiveMinutes is the sum of merged interval lengths.
	ActiveMinutes int `json:"active_minutes"`
	// GrossMinutes spans earliest start to latest end across merged
	// intervals; 0 when no valid interval exists.
	GrossMinutes int `json:"gross_minutes"`
	// GapMinutes is the uncovered time inside the gross span.
	GapMinutes int `json:"gap_minutes"`

	StandardBreakMinutes int `json:"standard_break_minutes"`
	DeductBreakMinutes   int `json:"deduct_break_minutes"`
	NetMinutes           int `json:"net_minutes"`

	RoundedMinutes int     `json:"rounded_minutes"`
	RoundedHours   float64 `json:"rounded_hours"`

	// SessionsCount counts every session of the day, valid or not.
	SessionsCount int `json:"sessions_count"`

	// Anomalies carries tagged markers like "invalid-range:<id>"; they
	// never block aggregation, only surface dirty data.
	Anomalies []string `json:"anomalies,omitempty"`

	BreakPolicyApplied bool `json:"break_policy_applied"`
}

// HasAnomaly reports whether the day carries any anomaly marker.
func (d DaySummary) HasAnomaly() bool {
	return len(d.Anomalies) > 0
}
