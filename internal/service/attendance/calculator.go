package attendance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/timeutil"
)

// Standard break tiers, evaluated largest first. A gross span of 12h or more
// carries a 120-minute standard break, 10h carries 90, 6h carries 60.
const (
	breakTier12h = 12 * 60
	breakTier10h = 10 * 60
	breakTier6h  = 6 * 60

	breakMinutes12h = 120
	breakMinutes10h = 90
	breakMinutes6h  = 60
)

// StandardBreakMinutes returns the rule-based standard break for a gross
// span, unless a fixed break is configured.
func StandardBreakMinutes(grossMinutes int, cfg attendance.CalcConfig) int {
	if cfg.FixedBreakMinutes > 0 {
		return cfg.FixedBreakMinutes
	}
	switch {
	case grossMinutes >= breakTier12h:
		return breakMinutes12h
	case grossMinutes >= breakTier10h:
		return breakMinutes10h
	case grossMinutes >= breakTier6h:
		return breakMinutes6h
	default:
		return 0
	}
}

type interval struct {
	start time.Time
	end   time.Time
}

// MergeIntervals sorts intervals by start and merges overlapping or touching
// ones into a disjoint set. Merging is idempotent.
func MergeIntervals(intervals []interval) []interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start.Before(sorted[j].start)
	})

	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		// Touching counts as overlap: end of one at or past start of next.
		if !last.end.Before(iv.start) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// ComputeDay turns all of one worker's sessions on one date into a
// DaySummary. Sessions with unusable ranges are excluded from interval math
// but still counted in SessionsCount and surfaced as anomalies.
func ComputeDay(date string, sessions []session.Session, skipStandardBreakDeduction bool, cfg attendance.CalcConfig) attendance.DaySummary {
	summary := attendance.DaySummary{
		Date:               date,
		SessionsCount:      len(sessions),
		BreakPolicyApplied: !skipStandardBreakDeduction,
	}

	intervals := make([]interval, 0, len(sessions))
	for _, s := range sessions {
		status := session.NormalizeStatus(s.RawStatus)
		if status == session.StatusUnknown || status == session.StatusOther {
			summary.Anomalies = append(summary.Anomalies, fmt.Sprintf("status:%s:%s", s.RawStatus, s.ID))
		}

		switch {
		case s.Start == nil || s.End == nil:
			summary.Anomalies = append(summary.Anomalies, fmt.Sprintf("missing-range:%s", s.ID))
		case !s.End.After(*s.Start):
			summary.Anomalies = append(summary.Anomalies, fmt.Sprintf("invalid-range:%s", s.ID))
		default:
			intervals = append(intervals, interval{start: *s.Start, end: *s.End})
		}
	}

	merged := MergeIntervals(intervals)
	// The covered duration is summed before rounding. Rounding each interval
	// on its own can push ActiveMinutes past GrossMinutes on sub-minute
	// timestamps; the summed duration never exceeds the span, so one round
	// keeps ActiveMinutes <= GrossMinutes.
	var covered time.Duration
	for _, iv := range merged {
		covered += iv.end.Sub(iv.start)
	}
	summary.ActiveMinutes = int(math.Round(covered.Minutes()))
	if len(merged) > 0 {
		first := merged[0].start
		last := merged[len(merged)-1].end
		summary.GrossMinutes = int(math.Round(last.Sub(first).Minutes()))
	}
	summary.GapMinutes = max(0, summary.GrossMinutes-summary.ActiveMinutes)

	summary.StandardBreakMinutes = StandardBreakMinutes(summary.GrossMinutes, cfg)
	if !skipStandardBreakDeduction {
		// Only deduct the portion of the standard break not already
		// represented by an uncovered gap between sessions.
		summary.DeductBreakMinutes = max(0, summary.StandardBreakMinutes-summary.GapMinutes)
	}
	summary.NetMinutes = max(0, summary.ActiveMinutes-summary.DeductBreakMinutes)

	summary.RoundedMinutes = cfg.Round(float64(summary.NetMinutes))
	summary.RoundedHours = timeutil.HoursFromMinutes(summary.RoundedMinutes)

	return summary
}
