package session

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pricelens/backend/internal/domain"
)

// sessionItem pairs a session with its expiration
type sessionItem struct {
	session    domain.Session
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory session store with TTL support.
// Each Get/Save works on a copy of the session, so callers never share
// mutable record slices across requests.
type MemoryStore struct {
	data  map[string]sessionItem
	mutex sync.RWMutex
	ttl   time.Duration
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}

	store := &MemoryStore{
		data: make(map[string]sessionItem),
		ttl:  ttl,
	}

	// Remove expired sessions every 10 minutes
	go store.cleanupExpired()

	return store
}

// Create allocates a new unauthenticated session with a fresh ULID
func (s *MemoryStore) Create(ctx context.Context) (*domain.Session, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, err
	}

	session := domain.Session{ID: id.String()}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[session.ID] = sessionItem{
		session:    session,
		expiration: time.Now().Add(s.ttl),
	}

	return copySession(session), nil
}

// Get retrieves a session by ID
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}

	if time.Now().After(item.expiration) {
		return nil, domain.ErrSessionNotFound
	}

	return copySession(item.session), nil
}

// Save stores the session state and refreshes its TTL
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrSessionNotFound
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[session.ID] = sessionItem{
		session:    *copySession(*session),
		expiration: time.Now().Add(s.ttl),
	}

	return nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
	return nil
}

// Size returns the current number of live sessions (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// cleanupExpired removes expired sessions periodically
func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, item := range s.data {
			if now.After(item.expiration) {
				delete(s.data, id)
			}
		}
		s.mutex.Unlock()
	}
}

// copySession deep-copies a session, including its table rows
func copySession(in domain.Session) *domain.Session {
	out := in
	if in.Table != nil {
		out.Table = make([]domain.PriceRecord, len(in.Table))
		copy(out.Table, in.Table)
	}
	return &out
}
