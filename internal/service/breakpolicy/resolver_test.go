package breakpolicy

import (
	"context"
	"errors"
	"testing"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	byRecordID map[string]directory.Worker
	byNumeric  map[int]directory.Worker
	byName     map[string][]directory.Worker

	err   error
	calls int
}

func (f *fakeDirectory) GetByRecordID(ctx context.Context, recordID string) (directory.Worker, error) {
	f.calls++
	if f.err != nil {
		return directory.Worker{}, f.err
	}
	w, ok := f.byRecordID[recordID]
	if !ok {
		return directory.Worker{}, directory.ErrWorkerNotFound
	}
	return w, nil
}

func (f *fakeDirectory) GetByNumericID(ctx context.Context, numericID int) (directory.Worker, error) {
	f.calls++
	if f.err != nil {
		return directory.Worker{}, f.err
	}
	w, ok := f.byNumeric[numericID]
	if !ok {
		return directory.Worker{}, directory.ErrWorkerNotFound
	}
	return w, nil
}

func (f *fakeDirectory) FindByName(ctx context.Context, name string) ([]directory.Worker, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byName[name], nil
}

func (f *fakeDirectory) GetManyByNumericIDs(ctx context.Context, numericIDs []int) (map[int]directory.Worker, error) {
	f.calls++
	result := make(map[int]directory.Worker)
	for _, id := range numericIDs {
		if w, ok := f.byNumeric[id]; ok {
			result[id] = w
		}
	}
	return result, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestResolver_RecordIDWinsOverOtherFields(t *testing.T) {
	repo := &fakeDirectory{
		byRecordID: map[string]directory.Worker{
			"recA": {RecordID: "recA", Name: "Tanaka", ExcludeBreakDeduction: true},
		},
		byNumeric: map[int]directory.Worker{
			7: {RecordID: "recB", Name: "Tanaka", ExcludeBreakDeduction: false},
		},
	}
	r := NewResolver(repo, true, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{
		RecordID:  strPtr("recA"),
		NumericID: intPtr(7),
		Name:      strPtr("Tanaka"),
	})

	assert.True(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceRecordID, result.Source)
	// The winning field short-circuits: exactly one lookup.
	assert.Equal(t, 1, repo.calls)
}

func TestResolver_NumericIDWhenNoRecordID(t *testing.T) {
	repo := &fakeDirectory{
		byNumeric: map[int]directory.Worker{
			7: {RecordID: "recB", ExcludeBreakDeduction: true},
		},
	}
	r := NewResolver(repo, true, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{
		NumericID: intPtr(7),
		Name:      strPtr("Suzuki"),
	})

	assert.True(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceUserID, result.Source)
}

func TestResolver_WinningFieldFailureDoesNotFallThrough(t *testing.T) {
	// The record id is present but unknown; the resolver must not try the
	// numeric id even though it would match.
	repo := &fakeDirectory{
		byNumeric: map[int]directory.Worker{
			7: {ExcludeBreakDeduction: true},
		},
	}
	r := NewResolver(repo, true, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{
		RecordID:  strPtr("missing"),
		NumericID: intPtr(7),
	})

	assert.False(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceDefault, result.Source)
	assert.Equal(t, 1, repo.calls)
}

func TestResolver_AmbiguousNameFallsBackToDefault(t *testing.T) {
	repo := &fakeDirectory{
		byName: map[string][]directory.Worker{
			"Sato": {
				{RecordID: "rec1", Name: "Sato", ExcludeBreakDeduction: true},
				{RecordID: "rec2", Name: "Sato", ExcludeBreakDeduction: false},
			},
		},
	}
	r := NewResolver(repo, true, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{Name: strPtr("Sato")})

	assert.False(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceDefault, result.Source)
}

func TestResolver_SingleNameMatch(t *testing.T) {
	repo := &fakeDirectory{
		byName: map[string][]directory.Worker{
			"Yamada": {{RecordID: "rec1", Name: "Yamada", ExcludeBreakDeduction: true}},
		},
	}
	r := NewResolver(repo, true, nil)

	result := r.ResolveByNameOnly(context.Background(), "Yamada")

	assert.True(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceUserName, result.Source)
}

func TestResolver_DisabledShortCircuits(t *testing.T) {
	repo := &fakeDirectory{}
	r := NewResolver(repo, false, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{RecordID: strPtr("recA")})

	assert.False(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceDefault, result.Source)
	assert.Equal(t, 0, repo.calls)
}

func TestResolver_EmptyIdentityIsDefault(t *testing.T) {
	repo := &fakeDirectory{}
	r := NewResolver(repo, true, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{})

	assert.Equal(t, directory.SourceDefault, result.Source)
	assert.Equal(t, 0, repo.calls)
}

func TestResolver_CachesPerWinningKey(t *testing.T) {
	repo := &fakeDirectory{
		byRecordID: map[string]directory.Worker{
			"recA": {RecordID: "recA", ExcludeBreakDeduction: true},
		},
	}
	r := NewResolver(repo, true, nil)
	ctx := context.Background()

	first := r.Resolve(ctx, directory.IdentityRef{RecordID: strPtr("recA")})
	second := r.Resolve(ctx, directory.IdentityRef{RecordID: strPtr("recA")})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}

func TestResolver_NotFoundIsCachedToo(t *testing.T) {
	repo := &fakeDirectory{}
	r := NewResolver(repo, true, nil)
	ctx := context.Background()

	r.Resolve(ctx, directory.IdentityRef{NumericID: intPtr(42)})
	r.Resolve(ctx, directory.IdentityRef{NumericID: intPtr(42)})

	assert.Equal(t, 1, repo.calls)
}

func TestResolver_NameCacheIsCaseFolded(t *testing.T) {
	repo := &fakeDirectory{
		byName: map[string][]directory.Worker{
			"Yamada": {{RecordID: "rec1", Name: "Yamada", ExcludeBreakDeduction: true}},
		},
	}
	r := NewResolver(repo, true, nil)
	ctx := context.Background()

	first := r.ResolveByNameOnly(ctx, "Yamada")
	// Folded variants hit the same cache entry even though the raw lookup
	// for "YAMADA" would miss in this fixture.
	second := r.ResolveByNameOnly(ctx, "YAMADA")

	require.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}

func TestResolver_LookupErrorAppliesDefault(t *testing.T) {
	repo := &fakeDirectory{err: errors.New("directory unavailable")}
	r := NewResolver(repo, true, nil)

	result := r.Resolve(context.Background(), directory.IdentityRef{RecordID: strPtr("recA")})

	assert.False(t, result.ExcludeBreakDeduction)
	assert.Equal(t, directory.SourceDefault, result.Source)
}

func TestResolver_SharedCacheAcrossInstances(t *testing.T) {
	repo := &fakeDirectory{
		byRecordID: map[string]directory.Worker{
			"recA": {RecordID: "recA", ExcludeBreakDeduction: true},
		},
	}
	cache := NewCache()
	ctx := context.Background()

	NewResolver(repo, true, cache).Resolve(ctx, directory.IdentityRef{RecordID: strPtr("recA")})
	NewResolver(repo, true, cache).Resolve(ctx, directory.IdentityRef{RecordID: strPtr("recA")})

	assert.Equal(t, 1, repo.calls)
}
