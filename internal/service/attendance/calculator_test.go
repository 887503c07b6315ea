package attendance

import (
	"fmt"
	"testing"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2026-06-15"

func at(t *testing.T, hour, minute int) *time.Time {
	t.Helper()
	v := time.Date(2026, 6, 15, hour, minute, 0, 0, time.UTC)
	return &v
}

func closedSession(t *testing.T, id string, start, end *time.Time) session.Session {
	t.Helper()
	return session.Session{
		ID:        id,
		Date:      testDate,
		Start:     start,
		End:       end,
		RawStatus: "closed",
	}
}

func TestStandardBreakMinutes_Tiers(t *testing.T) {
	cfg := attendance.CalcConfig{}

	assert.Equal(t, 0, StandardBreakMinutes(0, cfg))
	assert.Equal(t, 0, StandardBreakMinutes(359, cfg))
	assert.Equal(t, 60, StandardBreakMinutes(360, cfg))
	assert.Equal(t, 60, StandardBreakMinutes(599, cfg))
	assert.Equal(t, 90, StandardBreakMinutes(600, cfg))
	assert.Equal(t, 90, StandardBreakMinutes(719, cfg))
	assert.Equal(t, 120, StandardBreakMinutes(720, cfg))
	assert.Equal(t, 120, StandardBreakMinutes(1000, cfg))
}

func TestStandardBreakMinutes_FixedOverride(t *testing.T) {
	cfg := attendance.CalcConfig{FixedBreakMinutes: 45}

	// Fixed break replaces the tier rule for every span.
	assert.Equal(t, 45, StandardBreakMinutes(0, cfg))
	assert.Equal(t, 45, StandardBreakMinutes(400, cfg))
	assert.Equal(t, 45, StandardBreakMinutes(720, cfg))
}

func TestMergeIntervals_TouchingAndOverlapping(t *testing.T) {
	ivs := []interval{
		{start: *at(t, 13, 0), end: *at(t, 15, 0)},
		{start: *at(t, 9, 0), end: *at(t, 12, 0)},
		{start: *at(t, 12, 0), end: *at(t, 13, 0)}, // touches both neighbours
	}

	merged := MergeIntervals(ivs)
	require.Len(t, merged, 1)
	assert.Equal(t, *at(t, 9, 0), merged[0].start)
	assert.Equal(t, *at(t, 15, 0), merged[0].end)

	// Merging an already merged set changes nothing.
	again := MergeIntervals(merged)
	assert.Equal(t, merged, again)
}

func TestMergeIntervals_KeepsDisjoint(t *testing.T) {
	ivs := []interval{
		{start: *at(t, 13, 0), end: *at(t, 18, 0)},
		{start: *at(t, 9, 0), end: *at(t, 12, 0)},
	}

	merged := MergeIntervals(ivs)
	require.Len(t, merged, 2)
	assert.Equal(t, *at(t, 9, 0), merged[0].start)
	assert.Equal(t, *at(t, 13, 0), merged[1].start)
}

func TestComputeDay_GapAbsorbsStandardBreak(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "s1", at(t, 9, 0), at(t, 12, 0)),
		closedSession(t, "s2", at(t, 13, 0), at(t, 18, 0)),
	}

	summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})

	assert.Equal(t, 480, summary.ActiveMinutes)
	assert.Equal(t, 540, summary.GrossMinutes)
	assert.Equal(t, 60, summary.GapMinutes)
	assert.Equal(t, 60, summary.StandardBreakMinutes)
	// The hour-long gap already covers the whole standard break.
	assert.Equal(t, 0, summary.DeductBreakMinutes)
	assert.Equal(t, 480, summary.NetMinutes)
	assert.Equal(t, 8.0, summary.RoundedHours)
	assert.False(t, summary.HasAnomaly())
}

func TestComputeDay_ContinuousSpanDeductsFullBreak(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "s1", at(t, 9, 0), at(t, 18, 0)),
	}

	summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})

	assert.Equal(t, 540, summary.ActiveMinutes)
	assert.Equal(t, 540, summary.GrossMinutes)
	assert.Equal(t, 0, summary.GapMinutes)
	assert.Equal(t, 60, summary.DeductBreakMinutes)
	assert.Equal(t, 480, summary.NetMinutes)
}

func TestComputeDay_SkipDeduction(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "s1", at(t, 9, 0), at(t, 18, 0)),
	}

	summary := ComputeDay(testDate, sessions, true, attendance.CalcConfig{})

	assert.Equal(t, 60, summary.StandardBreakMinutes)
	assert.Equal(t, 0, summary.DeductBreakMinutes)
	assert.Equal(t, 540, summary.NetMinutes)
	assert.False(t, summary.BreakPolicyApplied)
}

func TestComputeDay_DeductionNeverExceedsBeyondGap(t *testing.T) {
	// As the gap grows, the deduction shrinks minute for minute and never
	// goes negative.
	prevDeduct := 61
	for gap := 0; gap <= 90; gap += 15 {
		sessions := []session.Session{
			closedSession(t, "s1", at(t, 8, 0), at(t, 12, 0)),
			closedSession(t, "s2", at(t, 12, gap), at(t, 17, 0)),
		}
		summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})
		assert.LessOrEqual(t, summary.DeductBreakMinutes, prevDeduct, "gap %d", gap)
		assert.GreaterOrEqual(t, summary.DeductBreakMinutes, 0, "gap %d", gap)
		prevDeduct = summary.DeductBreakMinutes
	}
}

func TestComputeDay_InvalidRangeExcludedButCounted(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "good", at(t, 9, 0), at(t, 12, 0)),
		closedSession(t, "bad", at(t, 15, 0), at(t, 14, 0)), // end before start
	}

	summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})

	assert.Equal(t, 2, summary.SessionsCount)
	assert.Equal(t, 180, summary.ActiveMinutes)
	assert.Contains(t, summary.Anomalies, "invalid-range:bad")
	assert.True(t, summary.HasAnomaly())
}

func TestComputeDay_MissingRangeAnomaly(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "open-ended", at(t, 9, 0), nil),
	}

	summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})

	assert.Equal(t, 0, summary.ActiveMinutes)
	assert.Contains(t, summary.Anomalies, "missing-range:open-ended")
}

func TestComputeDay_OddStatusAnomaly(t *testing.T) {
	s := closedSession(t, "s1", at(t, 9, 0), at(t, 12, 0))
	s.RawStatus = "paused"

	summary := ComputeDay(testDate, []session.Session{s}, false, attendance.CalcConfig{})

	// The range is still usable even though the status is odd.
	assert.Equal(t, 180, summary.ActiveMinutes)
	assert.Contains(t, summary.Anomalies, "status:paused:s1")
}

func TestComputeDay_SubMinuteSessionsKeepActiveWithinGross(t *testing.T) {
	atSec := func(hour, minute, sec int) *time.Time {
		v := time.Date(2026, 6, 15, hour, minute, sec, 0, time.UTC)
		return &v
	}
	// 36s and 38s of work with a 4s gap: 74s covered inside a 78s span.
	// Both round to 1 minute.
	sessions := []session.Session{
		closedSession(t, "s1", atSec(9, 0, 0), atSec(9, 0, 36)),
		closedSession(t, "s2", atSec(9, 0, 40), atSec(9, 1, 18)),
	}

	summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})

	assert.Equal(t, 1, summary.ActiveMinutes)
	assert.Equal(t, 1, summary.GrossMinutes)
	assert.Equal(t, 0, summary.GapMinutes)
	assert.LessOrEqual(t, summary.ActiveMinutes, summary.GrossMinutes)
	assert.LessOrEqual(t, summary.NetMinutes, summary.ActiveMinutes)
}

func TestComputeDay_OverlappingSessionsCountOnce(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "s1", at(t, 9, 0), at(t, 13, 0)),
		closedSession(t, "s2", at(t, 11, 0), at(t, 15, 0)),
	}

	summary := ComputeDay(testDate, sessions, false, attendance.CalcConfig{})

	assert.Equal(t, 360, summary.ActiveMinutes)
	assert.Equal(t, 360, summary.GrossMinutes)
	assert.Equal(t, 0, summary.GapMinutes)
}

func TestComputeDay_RoundingModes(t *testing.T) {
	sessions := []session.Session{
		closedSession(t, "s1", at(t, 9, 0), at(t, 13, 53)), // 293 active minutes
	}

	tests := []struct {
		mode string
		want int
	}{
		{"nearest", 300},
		{"up", 300},
		{"down", 285},
	}
	for _, tc := range tests {
		t.Run(tc.mode, func(t *testing.T) {
			cfg := attendance.CalcConfig{
				RoundEnabled:     true,
				RoundStepMinutes: 15,
				RoundMode:        timeutil.ParseRoundMode(tc.mode),
			}
			summary := ComputeDay(testDate, sessions, false, cfg)
			assert.Equal(t, 293, summary.NetMinutes)
			assert.Equal(t, tc.want, summary.RoundedMinutes)
		})
	}
}

func TestComputeDay_EmptyDay(t *testing.T) {
	summary := ComputeDay(testDate, nil, false, attendance.CalcConfig{})

	assert.Equal(t, 0, summary.SessionsCount)
	assert.Equal(t, 0, summary.NetMinutes)
	assert.Equal(t, 0.0, summary.RoundedHours)
	assert.Empty(t, summary.Anomalies)
}

func TestComputeDay_AnomalyTagsAreStable(t *testing.T) {
	s := closedSession(t, "x9", nil, nil)
	summary := ComputeDay(testDate, []session.Session{s}, false, attendance.CalcConfig{})
	require.Len(t, summary.Anomalies, 1)
	assert.Equal(t, fmt.Sprintf("missing-range:%s", s.ID), summary.Anomalies[0])
}
