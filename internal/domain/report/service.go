package report

import (
	"context"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
)

// ReportService builds the report matrices the presentation layer renders.
// All outputs are plain data; no renderer depends on engine internals.
type ReportService interface {
	// BuildMonthlyMatrix aggregates a month of sessions into a day-by-user
	// matrix with per-user and per-day totals.
	BuildMonthlyMatrix(ctx context.Context, req MonthlyMatrixRequest) (MonthlyMatrix, error)

	// BuildSitePivot groups one site's month into (user, work, machine)
	// columns with quarter-hour figures per day.
	BuildSitePivot(ctx context.Context, req SitePivotRequest) (SitePivot, error)

	// GroupUserDays groups one user's sessions by date with per-item
	// working/overtime splits.
	GroupUserDays(ctx context.Context, req UserDayGroupsRequest) (UserDayGroupsResponse, error)

	// ListSites returns the cached site listing for the report pickers.
	ListSites(ctx context.Context) ([]session.Site, error)

	// InvalidateSites drops the cached listing; wired to data mutations.
	InvalidateSites()
}
