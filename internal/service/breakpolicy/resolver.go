package breakpolicy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"golang.org/x/text/cases"
)

var defaultResult = directory.BreakPolicyResult{
	ExcludeBreakDeduction: false,
	Source:                directory.SourceDefault,
}

// Cache memoizes resolution results across one aggregation run. Keys carry
// the identity type of the field that actually resolved, so two people who
// happen to share a folded name can never contaminate each other through a
// record-id or numeric-id hit.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]directory.BreakPolicyResult
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]directory.BreakPolicyResult)}
}

func (c *Cache) get(key string) (directory.BreakPolicyResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *Cache) put(key string, r directory.BreakPolicyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
}

type Resolver struct {
	repo    directory.DirectoryRepository
	enabled bool
	cache   *Cache
	fold    cases.Caser
}

// NewResolver builds the break-policy resolver. When enabled is false every
// resolution short-circuits to the apply-deduction default without touching
// the directory. A nil cache gets a private one.
func NewResolver(repo directory.DirectoryRepository, enabled bool, cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{
		repo:    repo,
		enabled: enabled,
		cache:   cache,
		fold:    cases.Fold(),
	}
}

// Resolve walks the identity precedence chain: record id, numeric id, name.
// Each present field short-circuits the chain; a failed lookup on the
// winning field falls back to the default rather than trying the next field.
func (r *Resolver) Resolve(ctx context.Context, identity directory.IdentityRef) directory.BreakPolicyResult {
	if !r.enabled {
		return defaultResult
	}

	switch {
	case identity.RecordID != nil && *identity.RecordID != "":
		return r.resolveByRecordID(ctx, *identity.RecordID)
	case identity.NumericID != nil:
		return r.resolveByNumericID(ctx, *identity.NumericID)
	case identity.Name != nil && strings.TrimSpace(*identity.Name) != "":
		return r.resolveByName(ctx, *identity.Name)
	default:
		return defaultResult
	}
}

// ResolveByNameOnly implements the pivot's narrower name-only path.
func (r *Resolver) ResolveByNameOnly(ctx context.Context, name string) directory.BreakPolicyResult {
	if !r.enabled {
		return defaultResult
	}
	if strings.TrimSpace(name) == "" {
		return defaultResult
	}
	return r.resolveByName(ctx, name)
}

func (r *Resolver) resolveByRecordID(ctx context.Context, recordID string) directory.BreakPolicyResult {
	key := "rec:" + recordID
	if cached, ok := r.cache.get(key); ok {
		return cached
	}

	result := defaultResult
	worker, err := r.repo.GetByRecordID(ctx, recordID)
	switch {
	case err == nil:
		result = directory.BreakPolicyResult{
			ExcludeBreakDeduction: worker.ExcludeBreakDeduction,
			Source:                directory.SourceRecordID,
		}
	case !errors.Is(err, directory.ErrWorkerNotFound):
		slog.Warn("break policy lookup failed, applying default", "record_id", recordID, "error", err)
	}

	r.cache.put(key, result)
	return result
}

func (r *Resolver) resolveByNumericID(ctx context.Context, numericID int) directory.BreakPolicyResult {
	key := fmt.Sprintf("uid:%d", numericID)
	if cached, ok := r.cache.get(key); ok {
		return cached
	}

	result := defaultResult
	worker, err := r.repo.GetByNumericID(ctx, numericID)
	switch {
	case err == nil:
		result = directory.BreakPolicyResult{
			ExcludeBreakDeduction: worker.ExcludeBreakDeduction,
			Source:                directory.SourceUserID,
		}
	case !errors.Is(err, directory.ErrWorkerNotFound):
		slog.Warn("break policy lookup failed, applying default", "user_id", numericID, "error", err)
	}

	r.cache.put(key, result)
	return result
}

func (r *Resolver) resolveByName(ctx context.Context, name string) directory.BreakPolicyResult {
	folded := r.fold.String(strings.TrimSpace(name))
	key := "name:" + folded
	if cached, ok := r.cache.get(key); ok {
		return cached
	}

	result := defaultResult
	workers, err := r.repo.FindByName(ctx, name)
	switch {
	case err != nil:
		slog.Warn("break policy lookup failed, applying default", "name", name, "error", err)
	case len(workers) == 1:
		result = directory.BreakPolicyResult{
			ExcludeBreakDeduction: workers[0].ExcludeBreakDeduction,
			Source:                directory.SourceUserName,
		}
	case len(workers) > 1:
		// Never guess between duplicate names; surface the dirty data.
		slog.Warn("ambiguous worker name, applying default break policy", "name", name, "candidates", len(workers))
	}

	r.cache.put(key, result)
	return result
}
