package report

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/report"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/metrics"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/timeutil"
	attendancesvc "github.com/ANOSkdy/ai-nippo-sub000/internal/service/attendance"
)

// BuildMonthlyMatrix implements report.ReportService.
func (s *ReportServiceImpl) BuildMonthlyMatrix(ctx context.Context, req report.MonthlyMatrixRequest) (report.MonthlyMatrix, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyMatrix{}, err
	}

	started := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues("monthly").Observe(time.Since(started).Seconds())
	}()

	loc := s.cfg.Location
	month := time.Month(req.Month)
	dateKeys := timeutil.MonthDateKeys(req.Year, month, loc)

	filter := session.SessionFilter{
		StartDate: dateKeys[0],
		EndDate:   dateKeys[len(dateKeys)-1],
		SiteID:    req.SiteID,
		SiteName:  req.SiteName,
		MachineID: req.MachineID,
	}

	sessions, err := s.fetchRange(ctx, filter)
	if err != nil {
		return report.MonthlyMatrix{}, err
	}
	s.enrichIdentities(ctx, sessions)

	// Group by user key, then by date. Arrival order is irrelevant.
	type userBucket struct {
		identity directory.IdentityRef
		name     string
		byDate   map[string][]session.Session
	}
	users := make(map[string]*userBucket)
	for _, sess := range sessions {
		key := userKey(sess.Identity)
		bucket, ok := users[key]
		if !ok {
			bucket = &userBucket{byDate: make(map[string][]session.Session)}
			users[key] = bucket
		}
		bucket.byDate[sess.Date] = append(bucket.byDate[sess.Date], sess)

		// Remember the richest identity fields seen for this user.
		if bucket.identity.RecordID == nil && sess.Identity.RecordID != nil {
			bucket.identity.RecordID = sess.Identity.RecordID
		}
		if bucket.identity.NumericID == nil && sess.Identity.NumericID != nil {
			bucket.identity.NumericID = sess.Identity.NumericID
		}
		if bucket.identity.Name == nil && sess.Identity.Name != nil {
			bucket.identity.Name = sess.Identity.Name
		}
		if bucket.name == "" && sess.Identity.Name != nil {
			bucket.name = *sess.Identity.Name
		}
	}

	resolver := s.newRunResolver()
	threshold := s.cfg.DailyOvertimeThresholdMinutes

	rows := make([]report.MonthlyRow, 0, len(users))
	dayTotals := make(map[string]report.DayTotal, len(dateKeys))
	for _, dateKey := range dateKeys {
		dayTotals[dateKey] = report.DayTotal{}
	}

	for key, bucket := range users {
		// The break policy is a property of the person: resolve once per
		// user for the whole month, not per day.
		policy := resolver.Resolve(ctx, bucket.identity)

		row := report.MonthlyRow{
			UserKey:       key,
			UserName:      bucket.name,
			UserNumericID: bucket.identity.NumericID,
			Cells:         make(map[string]report.DayCell, len(dateKeys)),
		}

		for _, dateKey := range dateKeys {
			daySessions := bucket.byDate[dateKey]
			if len(daySessions) == 0 {
				// Zero cell, not an absent key.
				row.Cells[dateKey] = report.DayCell{BreakPolicyApplied: !policy.ExcludeBreakDeduction}
				continue
			}

			summary := attendancesvc.ComputeDay(dateKey, daySessions, policy.ExcludeBreakDeduction, s.calcConfig)
			cell := report.DayCell{
				Hours:              summary.RoundedHours,
				MinutesRounded:     summary.RoundedMinutes,
				BreakDeductMinutes: summary.DeductBreakMinutes,
				SessionsCount:      summary.SessionsCount,
				HasAnomaly:         summary.HasAnomaly(),
				BreakPolicyApplied: summary.BreakPolicyApplied,
			}
			row.Cells[dateKey] = cell

			row.Totals.MinutesRounded += cell.MinutesRounded
			row.Totals.Hours += cell.Hours
			row.Totals.BreakDeductMinutes += cell.BreakDeductMinutes
			if cell.MinutesRounded > 0 {
				row.Totals.WorkDays++
			}
			row.Totals.OvertimeHours += timeutil.HoursFromMinutes(max(0, cell.MinutesRounded-threshold))

			total := dayTotals[dateKey]
			total.MinutesRounded += cell.MinutesRounded
			total.Hours += cell.Hours
			dayTotals[dateKey] = total
		}

		rows = append(rows, row)
	}

	// Deterministic row order regardless of input order: collated name,
	// tie-broken by numeric id.
	col := newCollator(s.cfg.Locale)
	sort.Slice(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].UserName, rows[j].UserName); c != 0 {
			return c < 0
		}
		a, b := rows[i].UserNumericID, rows[j].UserNumericID
		switch {
		case a == nil && b == nil:
			return rows[i].UserKey < rows[j].UserKey
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	days := make([]report.DaySpec, 0, len(dateKeys))
	for _, dateKey := range dateKeys {
		days = append(days, report.DaySpec{
			Date:    dateKey,
			Weekday: timeutil.WeekdayLabel(dateKey, loc),
		})
	}

	metrics.ReportsGenerated.WithLabelValues("monthly").Inc()
	slog.Info("monthly matrix built",
		"month", timeutil.MonthKey(req.Year, month),
		"users", len(rows),
		"sessions", len(sessions))
	return report.MonthlyMatrix{
		Year:        req.Year,
		Month:       req.Month,
		Days:        days,
		Rows:        rows,
		DayTotals:   dayTotals,
		GeneratedAt: time.Now().In(loc).Format(time.RFC3339),
	}, nil
}
