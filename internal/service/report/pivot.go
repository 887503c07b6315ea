package report

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/report"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/metrics"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/timeutil"
	attendancesvc "github.com/ANOSkdy/ai-nippo-sub000/internal/service/attendance"
)

// Sessions at or past a full day are a sentinel for broken punch data and
// are silently excluded from the pivot (the daily calculator surfaces them
// as anomalies instead; the pivot is presentation-oriented).
const pivotMaxMinutes = 24 * 60

type pivotColumnKey struct {
	userKey         string
	workDescription string
	machineKey      string
}

type pivotBucket struct {
	userName    string
	machineName string
	minutes     map[string]float64 // date key -> summed raw minutes
}

// BuildSitePivot implements report.ReportService.
func (s *ReportServiceImpl) BuildSitePivot(ctx context.Context, req report.SitePivotRequest) (report.SitePivot, error) {
	if err := req.Validate(); err != nil {
		return report.SitePivot{}, err
	}

	started := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues("pivot").Observe(time.Since(started).Seconds())
	}()

	loc := s.cfg.Location
	month := time.Month(req.Month)
	dateKeys := timeutil.MonthDateKeys(req.Year, month, loc)

	// A site id nobody ever punched at is a caller mistake, not an empty
	// pivot. Name filters stay fuzzy and fall through to matchesSite.
	if req.SiteID != nil && *req.SiteID != "" {
		known, err := s.siteKnown(ctx, *req.SiteID)
		if err != nil {
			return report.SitePivot{}, err
		}
		if !known {
			return report.SitePivot{}, report.ErrSiteNotFound
		}
	}

	filter := session.SessionFilter{
		StartDate: dateKeys[0],
		EndDate:   dateKeys[len(dateKeys)-1],
		SiteID:    req.SiteID,
		SiteName:  req.SiteName,
	}

	sessions, err := s.fetchRange(ctx, filter)
	if err != nil {
		return report.SitePivot{}, err
	}
	s.enrichIdentities(ctx, sessions)

	machineAllow := make(map[string]struct{}, len(req.MachineIDs))
	for _, id := range req.MachineIDs {
		machineAllow[id] = struct{}{}
	}

	siteLabel := ""
	if req.SiteName != nil {
		siteLabel = *req.SiteName
	}

	buckets := make(map[pivotColumnKey]*pivotBucket)
	for _, sess := range sessions {
		if session.NormalizeStatus(sess.RawStatus) != session.StatusClosed {
			continue
		}
		if !matchesSite(sess, req) {
			continue
		}
		if len(machineAllow) > 0 {
			if _, ok := machineAllow[sess.Machine.Key()]; !ok {
				continue
			}
		}

		minutes := sess.RawMinutes()
		if minutes <= 0 || minutes >= pivotMaxMinutes {
			continue
		}

		key := pivotColumnKey{
			userKey:         userKey(sess.Identity),
			workDescription: orUnset(sess.WorkDescription),
			machineKey:      orUnset(sess.Machine.Key()),
		}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &pivotBucket{minutes: make(map[string]float64)}
			buckets[key] = bucket
		}
		bucket.minutes[sess.Date] += minutes

		if bucket.userName == "" && sess.Identity.Name != nil {
			bucket.userName = *sess.Identity.Name
		}
		if bucket.machineName == "" && sess.Machine.Name != nil {
			bucket.machineName = *sess.Machine.Name
		}
		if siteLabel == "" && sess.Site.Name != nil {
			siteLabel = *sess.Site.Name
		}
	}

	// Column order: machine-having columns by natural machine id, then by
	// user name and work description; machine-less columns last.
	keys := make([]pivotColumnKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	col := newCollator(s.cfg.Locale)
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		aHas, bHas := a.machineKey != report.UnsetLabel, b.machineKey != report.UnsetLabel
		if aHas != bHas {
			return aHas
		}
		if aHas && a.machineKey != b.machineKey {
			return machineIDLess(col, a.machineKey, b.machineKey)
		}
		if c := col.CompareString(buckets[a].userName, buckets[b].userName); c != 0 {
			return c < 0
		}
		return col.CompareString(a.workDescription, b.workDescription) < 0
	})

	// The pivot resolves the break-skip status per column and only through
	// the name lookup.
	resolver := s.newRunResolver()

	columns := make([]report.PivotColumn, 0, len(keys))
	perColumnDayHours := make([]map[string]float64, 0, len(keys))
	for _, key := range keys {
		bucket := buckets[key]
		policy := resolver.ResolveByNameOnly(ctx, bucket.userName)

		dayHours := make(map[string]float64, len(bucket.minutes))
		columnTotal := 0.0
		for dateKey, minutes := range bucket.minutes {
			rounded := int(math.Round(minutes))
			if !policy.ExcludeBreakDeduction {
				rounded = max(0, rounded-attendancesvc.StandardBreakMinutes(rounded, s.calcConfig))
			}
			hours := timeutil.QuarterHours(rounded)
			dayHours[dateKey] = hours
			columnTotal += hours
		}

		columns = append(columns, report.PivotColumn{
			UserKey:         key.userKey,
			UserName:        bucket.userName,
			WorkDescription: key.workDescription,
			MachineKey:      key.machineKey,
			MachineName:     bucket.machineName,
			TotalHours:      columnTotal,
		})
		perColumnDayHours = append(perColumnDayHours, dayHours)
	}

	grandTotal := 0.0
	days := make([]report.PivotDayRow, 0, len(dateKeys))
	for _, dateKey := range dateKeys {
		row := report.PivotDayRow{
			Date:    dateKey,
			Weekday: timeutil.WeekdayLabel(dateKey, loc),
			Values:  make([]float64, len(columns)),
		}
		for i := range columns {
			v := perColumnDayHours[i][dateKey]
			row.Values[i] = v
			row.TotalHours += v
		}
		grandTotal += row.TotalHours
		days = append(days, row)
	}

	metrics.ReportsGenerated.WithLabelValues("pivot").Inc()
	return report.SitePivot{
		Year:        req.Year,
		Month:       req.Month,
		Site:        siteLabel,
		Columns:     columns,
		Days:        days,
		GrandTotal:  grandTotal,
		GeneratedAt: time.Now().In(loc).Format(time.RFC3339),
	}, nil
}

// matchesSite matches by exact record reference or case-folded name
// equality.
func matchesSite(sess session.Session, req report.SitePivotRequest) bool {
	if req.SiteID != nil && *req.SiteID != "" {
		if sess.Site.ID != nil && *sess.Site.ID == *req.SiteID {
			return true
		}
	}
	if req.SiteName != nil && *req.SiteName != "" {
		if sess.Site.Name != nil && strings.EqualFold(strings.TrimSpace(*sess.Site.Name), strings.TrimSpace(*req.SiteName)) {
			return true
		}
	}
	return false
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return report.UnsetLabel
	}
	return s
}
