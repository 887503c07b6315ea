package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/config"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/report"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/cache"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/metrics"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/service/breakpolicy"
)

// enrichBatchSize is how many numeric ids go into one directory lookup.
const enrichBatchSize = 12

type ReportServiceImpl struct {
	sessionRepo   session.SessionRepository
	directoryRepo directory.DirectoryRepository
	calcConfig    attendance.CalcConfig
	cfg           config.AttendanceConfig

	siteListing *cache.Listing[[]session.Site]
}

func NewReportService(
	sessionRepo session.SessionRepository,
	directoryRepo directory.DirectoryRepository,
	cfg config.AttendanceConfig,
) report.ReportService {
	return &ReportServiceImpl{
		sessionRepo:   sessionRepo,
		directoryRepo: directoryRepo,
		calcConfig:    attendance.CalcConfigFrom(cfg),
		cfg:           cfg,
		siteListing:   cache.NewListing[[]session.Site](cfg.SiteCacheTTL),
	}
}

// newRunResolver builds a break-policy resolver whose memoization cache
// lives exactly as long as one aggregation run. The policy is a property of
// the person, not the day: one resolution per user per run.
func (s *ReportServiceImpl) newRunResolver() directory.BreakPolicyResolver {
	return breakpolicy.NewResolver(s.directoryRepo, s.cfg.BreakPolicyEnabled, breakpolicy.NewCache())
}

// ListSites implements report.ReportService.
func (s *ReportServiceImpl) ListSites(ctx context.Context) ([]session.Site, error) {
	sites, err := s.siteListing.Get(ctx, s.sessionRepo.ListSites)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("sessions").Inc()
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}

// InvalidateSites implements report.ReportService.
func (s *ReportServiceImpl) InvalidateSites() {
	s.siteListing.Invalidate()
}

// siteKnown checks a site id against the cached listing.
func (s *ReportServiceImpl) siteKnown(ctx context.Context, siteID string) (bool, error) {
	sites, err := s.ListSites(ctx)
	if err != nil {
		return false, err
	}
	for _, site := range sites {
		if site.ID == siteID {
			return true, nil
		}
	}
	return false, nil
}

// fetchRange pulls sessions for the filter and re-validates every filter
// locally, since upstream filtering is best-effort.
func (s *ReportServiceImpl) fetchRange(ctx context.Context, filter session.SessionFilter) ([]session.Session, error) {
	fetched, err := s.sessionRepo.FetchRange(ctx, filter)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("sessions").Inc()
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	sessions := make([]session.Session, 0, len(fetched))
	for _, sess := range fetched {
		if sess.Matches(filter) {
			sessions = append(sessions, sess)
		}
	}
	return sessions, nil
}

// enrichIdentities fills missing display names from the worker directory in
// small batches. Best-effort: a failed batch is logged and skipped, never
// aborting the aggregation.
func (s *ReportServiceImpl) enrichIdentities(ctx context.Context, sessions []session.Session) {
	missing := make(map[int]struct{})
	for _, sess := range sessions {
		if sess.Identity.Name == nil && sess.Identity.NumericID != nil {
			missing[*sess.Identity.NumericID] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return
	}

	ids := make([]int, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}

	resolved := make(map[int]directory.Worker, len(ids))
	for start := 0; start < len(ids); start += enrichBatchSize {
		end := min(start+enrichBatchSize, len(ids))
		batch, err := s.directoryRepo.GetManyByNumericIDs(ctx, ids[start:end])
		if err != nil {
			metrics.UpstreamFailures.WithLabelValues("directory").Inc()
			slog.Warn("directory enrichment batch failed, continuing with partial names", "error", err)
			continue
		}
		for id, w := range batch {
			resolved[id] = w
		}
	}

	for i := range sessions {
		sess := &sessions[i]
		if sess.Identity.Name != nil || sess.Identity.NumericID == nil {
			continue
		}
		if w, ok := resolved[*sess.Identity.NumericID]; ok {
			name := w.Name
			sess.Identity.Name = &name
			if sess.Identity.RecordID == nil && w.RecordID != "" {
				recordID := w.RecordID
				sess.Identity.RecordID = &recordID
			}
			metrics.EnrichedIdentities.Inc()
		}
	}
}
