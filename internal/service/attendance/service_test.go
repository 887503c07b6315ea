package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/attendance"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions []session.Session
}

func (f *fakeSessionRepo) FetchRange(ctx context.Context, filter session.SessionFilter) ([]session.Session, error) {
	// Deliberately no server-side filtering: the service must re-check
	// locally.
	return f.sessions, nil
}

func (f *fakeSessionRepo) List(ctx context.Context, filter session.SessionFilter) ([]session.Session, int64, error) {
	return f.sessions, int64(len(f.sessions)), nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (session.Session, error) {
	return session.Session{}, session.ErrSessionNotFound
}

func (f *fakeSessionRepo) Update(ctx context.Context, s session.Session) error { return nil }

func (f *fakeSessionRepo) ListSites(ctx context.Context) ([]session.Site, error) { return nil, nil }

type fixedResolver struct {
	result directory.BreakPolicyResult
	seen   directory.IdentityRef
}

func (r *fixedResolver) Resolve(ctx context.Context, identity directory.IdentityRef) directory.BreakPolicyResult {
	r.seen = identity
	return r.result
}

func (r *fixedResolver) ResolveByNameOnly(ctx context.Context, name string) directory.BreakPolicyResult {
	return r.result
}

func intP(n int) *int            { return &n }
func strP(s string) *string      { return &s }
func tsP(t time.Time) *time.Time { return &t }

func TestGetDailyDetail_FiltersAndComputes(t *testing.T) {
	date := "2026-06-15"
	start := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

	repo := &fakeSessionRepo{sessions: []session.Session{
		{
			ID:        "mine",
			Identity:  session.Identity{NumericID: intP(1), RecordID: strP("recA")},
			Date:      date,
			Start:     tsP(start),
			End:       tsP(start.Add(9 * time.Hour)),
			RawStatus: "closed",
		},
		{
			// Someone else's session the upstream failed to filter out.
			ID:        "other",
			Identity:  session.Identity{NumericID: intP(2)},
			Date:      date,
			Start:     tsP(start),
			End:       tsP(start.Add(4 * time.Hour)),
			RawStatus: "closed",
		},
	}}
	resolver := &fixedResolver{}
	svc := NewAttendanceService(repo, resolver, attendance.CalcConfig{})

	resp, err := svc.GetDailyDetail(context.Background(), attendance.DailyDetailRequest{
		Date:          date,
		UserNumericID: intP(1),
	})
	require.NoError(t, err)

	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "mine", resp.Sessions[0].ID)
	assert.Equal(t, 480, resp.Summary.NetMinutes)

	// The session's record reference reaches the resolver even though the
	// request only carried the numeric id.
	require.NotNil(t, resolver.seen.RecordID)
	assert.Equal(t, "recA", *resolver.seen.RecordID)
}

func TestGetDailyDetail_ExcludedWorkerKeepsBreak(t *testing.T) {
	date := "2026-06-15"
	start := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)

	repo := &fakeSessionRepo{sessions: []session.Session{
		{
			ID:        "s1",
			Identity:  session.Identity{NumericID: intP(1)},
			Date:      date,
			Start:     tsP(start),
			End:       tsP(start.Add(8 * time.Hour)),
			RawStatus: "closed",
		},
	}}
	resolver := &fixedResolver{result: directory.BreakPolicyResult{
		ExcludeBreakDeduction: true,
		Source:                directory.SourceRecordID,
	}}
	svc := NewAttendanceService(repo, resolver, attendance.CalcConfig{})

	resp, err := svc.GetDailyDetail(context.Background(), attendance.DailyDetailRequest{
		Date:          date,
		UserNumericID: intP(1),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Summary.DeductBreakMinutes)
	assert.Equal(t, 480, resp.Summary.NetMinutes)
	assert.False(t, resp.Summary.BreakPolicyApplied)
}

func TestGetDailyDetail_RequiresDateAndIdentity(t *testing.T) {
	svc := NewAttendanceService(&fakeSessionRepo{}, &fixedResolver{}, attendance.CalcConfig{})

	_, err := svc.GetDailyDetail(context.Background(), attendance.DailyDetailRequest{})
	assert.Error(t, err)

	_, err = svc.GetDailyDetail(context.Background(), attendance.DailyDetailRequest{Date: "2026-06-15"})
	assert.Error(t, err)
}
