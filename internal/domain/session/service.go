package session

import "context"

// SessionService is the console's raw-record surface: paging through punch
// rows and applying administrator corrections.
type SessionService interface {
	ListSessions(ctx context.Context, filter SessionFilter) (ListSessionsResponse, error)
	GetSession(ctx context.Context, id string) (SessionResponse, error)

	// UpdateSession applies a correction and returns the updated row.
	// Corrections invalidate derived caches.
	UpdateSession(ctx context.Context, req UpdateSessionRequest) (SessionResponse, error)
}
