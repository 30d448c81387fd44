// Package redis implements db.Store on Redis Stack (or Redis 8 with the
// query engine) through rueidis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

var _ db.Store = (*Store)(nil)

const clientName = "transcriptqa"

// Config holds connection parameters.
type Config struct {
	URL      string // redis://[user:pass@]host:port[/db]
	Password string // wins over the URL password
}

// Store is a db.Store over a single rueidis client.
type Store struct {
	client rueidis.Client
}

// NewStore parses cfg and opens the client. Client-side caching is off and
// replies are forced to RESP2, which the FT.SEARCH parser reads.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}
	opt, err := rueidis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.ClientName = clientName
	opt.DisableCache = true
	opt.AlwaysRESP2 = true

	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opt.InitAddress, err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Store) Close() { s.client.Close() }

// WaitForReady pings with doubling pauses (50ms up to 1s) until the server
// answers or timeout elapses.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pause := 50 * time.Millisecond
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis not reachable within %s (last error: %v): %w", timeout, err, ctx.Err())
		case <-time.After(pause):
		}
		pause = min(2*pause, time.Second)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder { return s.client.B() }

// serverErrorContains reports whether err is a Redis error reply whose text
// contains one of fragments, ignoring case.
func serverErrorContains(err error, fragments ...string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	msg := strings.ToLower(re.Error())
	for _, f := range fragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}

// Fragments RediSearch versions use for a missing index.
var missingIndex = []string{"unknown index name", "no such index"}

// indexError maps index-related error replies onto db sentinels.
func indexError(op string, err error) error {
	switch {
	case serverErrorContains(err, missingIndex...):
		return db.ErrIndexNotFound
	case serverErrorContains(err, "index already exists"):
		return db.ErrIndexExists
	default:
		return &db.Error{Op: op, Err: err}
	}
}
