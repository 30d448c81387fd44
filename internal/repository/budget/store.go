// Package budget persists embedding token counters in Redis so that separate
// CLI runs and the HTTP server share one daily and monthly budget.
package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

// store is the consumer interface for budget counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}

// Store keeps one integer counter per budget window.
type Store struct {
	store store
}

// New creates a budget store.
func New(s store) *Store {
	return &Store{store: s}
}

// Add increments the counter at key by tokens. The first write of a window sets
// its expiry; later writes keep it.
func (s *Store) Add(ctx context.Context, key string, tokens int64, ttl time.Duration) error {
	if _, err := s.store.IncrBy(ctx, key, tokens, ttl); err != nil {
		return fmt.Errorf("add %d tokens to %s: %w", tokens, key, err)
	}
	return nil
}

// Load returns the counter at key, zero when the window has no usage yet.
func (s *Store) Load(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("load %s: counter %q: %w", key, data, err)
	}
	return n, nil
}
