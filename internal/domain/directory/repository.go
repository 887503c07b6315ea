package directory

import "context"

// DirectoryRepository is the worker-directory collaborator. Lookups are
// exact except FindByName, which matches case-insensitively and may return
// multiple candidates on dirty data.
type DirectoryRepository interface {
	GetByRecordID(ctx context.Context, recordID string) (Worker, error)
	GetByNumericID(ctx context.Context, numericID int) (Worker, error)
	FindByName(ctx context.Context, name string) ([]Worker, error)

	// GetManyByNumericIDs is the batched enrichment lookup used to fill
	// missing display names before aggregation. Best-effort: callers
	// tolerate partial results.
	GetManyByNumericIDs(ctx context.Context, numericIDs []int) (map[int]Worker, error)
}

// BreakPolicyResolver resolves whether the standard break deduction is
// skipped for a given identity.
type BreakPolicyResolver interface {
	Resolve(ctx context.Context, identity IdentityRef) BreakPolicyResult

	// ResolveByNameOnly resolves purely through the name lookup. The site
	// pivot uses this narrower path.
	ResolveByNameOnly(ctx context.Context, name string) BreakPolicyResult
}

// IdentityRef carries the identity fields a resolution may use, in
// precedence order recordID > numericID > name.
type IdentityRef struct {
	RecordID  *string
	NumericID *int
	Name      *string
}
