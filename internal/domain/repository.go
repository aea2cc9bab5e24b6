package domain

import "context"

// SearchClient defines the interface for the external search provider
type SearchClient interface {
	// Search runs a site-restricted product search and returns the raw document.
	Search(ctx context.Context, query, site string) (*SearchResults, error)
}

// QueryNormalizer defines the optional LLM query-normalization boundary.
// Implementations must absorb every failure and return the original query.
type QueryNormalizer interface {
	Normalize(ctx context.Context, query string) string
}

// Session holds the per-user state for one comparison session
type Session struct {
	ID            string
	Authenticated bool
	Table         []PriceRecord
}

// SessionStore defines the interface for session persistence
type SessionStore interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}
