// Package db declares the storage contract the repositories are written
// against. The only implementation is the Redis Stack adapter in db/redis.
package db

import (
	"context"
	"time"
)

// Store is everything a Redis-backed runtime needs in one handle.
// Repositories accept the narrow interface they use instead.
type Store interface {
	Pinger
	HashStore
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Hash is one hash key with the fields to write.
type Hash struct {
	Key    string
	Fields map[string]string
}

// HashStore holds vector records.
type HashStore interface {
	// HSetMulti writes all hashes in one pipelined round trip.
	HSetMulti(ctx context.Context, hashes []Hash) error
	// HGetAll returns an empty map for a missing key.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore holds cached embeddings and budget counters.
type KVStore interface {
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value. A non-positive ttl keeps the key forever.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// IncrBy adds delta to the counter at key and returns the new total.
	// A positive ttl is applied only when the key has no expiry yet.
	IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}

// IndexManager manages RediSearch indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	// DropIndex with deleteDocs also removes the indexed hashes.
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
