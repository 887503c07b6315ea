package session

import "context"

// SessionRepository is the system-of-record boundary. Implementations must
// hand back sessions already normalized into the Session shape; the engine
// never branches on upstream field spellings.
type SessionRepository interface {
	// FetchRange returns every session attributed to a date in
	// [filter.StartDate, filter.EndDate], best-effort pre-filtered by the
	// optional identity/site/machine fields. No pagination.
	FetchRange(ctx context.Context, filter SessionFilter) ([]Session, error)

	// List returns a page of sessions for the console's raw view.
	List(ctx context.Context, filter SessionFilter) ([]Session, int64, error)

	GetByID(ctx context.Context, id string) (Session, error)

	// Update applies an administrator correction.
	Update(ctx context.Context, s Session) error

	// ListSites returns the distinct sites observed in the session store.
	ListSites(ctx context.Context) ([]Site, error)
}
