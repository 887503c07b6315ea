package report

import (
	"context"
	"sort"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/report"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/metrics"
)

// GroupUserDays implements report.ReportService.
func (s *ReportServiceImpl) GroupUserDays(ctx context.Context, req report.UserDayGroupsRequest) (report.UserDayGroupsResponse, error) {
	if err := req.Validate(); err != nil {
		return report.UserDayGroupsResponse{}, err
	}

	started := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues("groups").Observe(time.Since(started).Seconds())
	}()

	filter := session.SessionFilter{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		UserNumericID: req.UserNumericID,
		UserName:      req.UserName,
	}

	sessions, err := s.fetchRange(ctx, filter)
	if err != nil {
		return report.UserDayGroupsResponse{}, err
	}

	userName := ""
	if req.UserName != nil {
		userName = *req.UserName
	}

	byDate := make(map[string][]session.Session)
	for _, sess := range sessions {
		if session.NormalizeStatus(sess.RawStatus) != session.StatusClosed {
			continue
		}
		byDate[sess.Date] = append(byDate[sess.Date], sess)
		if userName == "" && sess.Identity.Name != nil {
			userName = *sess.Identity.Name
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	groups := make([]report.DayGroup, 0, len(dates))
	for _, date := range dates {
		groups = append(groups, s.buildDayGroup(date, byDate[date]))
	}

	metrics.ReportsGenerated.WithLabelValues("groups").Inc()
	return report.UserDayGroupsResponse{
		UserName: userName,
		Groups:   groups,
	}, nil
}

// buildDayGroup splits one day's sessions into per-item working/overtime
// figures. The single longest session absorbs the configured break; ties go
// to the first-seen item. The day summary computes an independent
// span-based figure; the two can legitimately disagree when sessions
// overlap or are disjoint.
func (s *ReportServiceImpl) buildDayGroup(date string, sessions []session.Session) report.DayGroup {
	breakMinutes := float64(s.cfg.GroupBreakMinutes)
	standard := s.cfg.StandardWorkdayMinutes

	targetIdx := -1
	maxRaw := 0.0
	for i, sess := range sessions {
		raw := sess.RawMinutes()
		if raw > maxRaw {
			maxRaw = raw
			targetIdx = i
		}
	}

	group := report.DayGroup{Date: date}
	for i, sess := range sessions {
		raw := sess.RawMinutes()
		working := raw
		if i == targetIdx {
			working -= breakMinutes
		}
		workingRounded := s.calcConfig.Round(working)
		overtimeRounded := s.calcConfig.Round(float64(max(0, workingRounded-standard)))
		// Clamp the displayed working figure so that working + overtime
		// reconstruct the rounded total without double counting.
		displayed := min(standard, workingRounded-overtimeRounded)

		item := report.DayGroupItem{
			SessionID:       sess.ID,
			RawMinutes:      raw,
			IsBreakTarget:   i == targetIdx,
			WorkingMinutes:  displayed,
			OvertimeMinutes: overtimeRounded,
		}
		group.Items = append(group.Items, item)
		group.Summary.ItemWorkingMinutes += item.WorkingMinutes
	}

	// Independent day-span figure for the header display.
	var earliest, latest *time.Time
	for _, sess := range sessions {
		if sess.Start == nil || sess.End == nil || !sess.End.After(*sess.Start) {
			continue
		}
		if earliest == nil || sess.Start.Before(*earliest) {
			earliest = sess.Start
		}
		if latest == nil || sess.End.After(*latest) {
			latest = sess.End
		}
	}
	if earliest != nil && latest != nil {
		span := latest.Sub(*earliest).Minutes()
		group.Summary.SpanMinutes = span
		workingRounded := s.calcConfig.Round(span - breakMinutes)
		overtimeRounded := s.calcConfig.Round(float64(max(0, workingRounded-standard)))
		group.Summary.WorkingMinutes = min(standard, workingRounded-overtimeRounded)
		group.Summary.OvertimeMinutes = overtimeRounded
	}

	return group
}
