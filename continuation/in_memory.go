package continuation

import (
	"errors"
	"sync"
	"time"

	"github.com/agentmux/agentmux/core"
)

// DefaultTTL bounds how long parsed attachment content stays retrievable.
const DefaultTTL = 30 * time.Minute

var (
	// ErrNotFound is returned when no entry exists for the handle.
	ErrNotFound = errors.New("continuation not found")
	// ErrExpired is returned when the handle existed but its content aged out.
	ErrExpired = errors.New("continuation expired")
)

type entry struct {
	content   any
	expiresAt time.Time
}

// InMemoryStore is a process local ContinuationStore with lazy expiry:
// entries are evicted when a Get observes them past their deadline. It is
// safe for concurrent use.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Options configures an InMemoryStore.
type Options struct {
	// TTL overrides DefaultTTL when positive.
	TTL time.Duration
	// Now substitutes the clock, for tests.
	Now func() time.Time
}

// NewInMemoryStore constructs an empty continuation store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{TTL: DefaultTTL, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &InMemoryStore{
		entries: make(map[string]entry),
		ttl:     opts.TTL,
		now:     opts.Now,
	}
}

// Put stores content and returns the handle under which it can be retrieved
// until the TTL elapses.
func (s *InMemoryStore) Put(content any) (string, error) {
	id := core.NewID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{content: content, expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

// Get returns the stored content, ErrExpired when the entry aged out, or
// ErrNotFound for unknown handles. Expired entries are evicted on access.
func (s *InMemoryStore) Get(id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, ErrExpired
	}
	return e.content, nil
}

// Len reports the number of live entries, counting expired ones not yet
// evicted.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
