// Package vector stores chunk embeddings as Redis hashes under a RediSearch vector index.
package vector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/transcriptqa/internal/db"
	"github.com/kailas-cloud/transcriptqa/internal/domain"
	domdoc "github.com/kailas-cloud/transcriptqa/internal/domain/document"
	"github.com/kailas-cloud/transcriptqa/internal/domain/search/result"
)

// Hash field names of a stored record.
const (
	FieldContent  = "content"
	FieldMetadata = "metadata"
	FieldVector   = "content_vector"
)

// Defaults for the shared collection address.
const (
	DefaultIndexName = "videos-embeddings"
	DefaultKeyPrefix = "videos:"
)

// store is the subset of db.Store the repository uses.
type store interface {
	db.HashStore
	db.IndexManager
	db.Searcher
}

// Config addresses the collection shared by ingestion and retrieval.
type Config struct {
	IndexName string
	KeyPrefix string
	// HNSW parameters; zero leaves the server defaults.
	HNSWM              int
	HNSWEFConstruction int
}

// Repo implements the ingest and retrieval repositories.
type Repo struct {
	store store
	cfg   Config
	newID func() string
}

// New creates a vector repository. Empty names fall back to the defaults.
func New(s store, cfg Config) *Repo {
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, cfg: cfg, newID: uuid.NewString}
}

// IndexName returns the configured index name.
func (r *Repo) IndexName() string { return r.cfg.IndexName }

// KeyPrefix returns the configured key prefix.
func (r *Repo) KeyPrefix() string { return r.cfg.KeyPrefix }

// EnsureIndex creates the vector index for dim-sized embeddings unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context, dim int) error {
	exists, err := r.store.IndexExists(ctx, r.cfg.IndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.cfg.IndexName, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(r.cfg, dim)
	if err != nil {
		return fmt.Errorf("build index %s: %w", r.cfg.IndexName, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

// DropIndex removes the index together with every record it covers.
// A missing index is not an error.
func (r *Repo) DropIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.cfg.IndexName, true); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil
		}
		return fmt.Errorf("drop index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

// Get loads the chunk stored under key.
func (r *Repo) Get(ctx context.Context, key string) (domdoc.Chunk, error) {
	if !r.owns(key) {
		return domdoc.Chunk{}, fmt.Errorf("%s: %w", key, domain.ErrRecordNotFound)
	}
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domdoc.Chunk{}, fmt.Errorf("get %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domdoc.Chunk{}, fmt.Errorf("%s: %w", key, domain.ErrRecordNotFound)
	}
	return domdoc.ReconstructChunk(fields[FieldContent], decodeMetadata(fields[FieldMetadata])), nil
}

// owns reports whether key names a record of this collection. Budget
// counters and cache entries live in the same database under other prefixes.
func (r *Repo) owns(key string) bool {
	return len(key) > len(r.cfg.KeyPrefix) && strings.HasPrefix(key, r.cfg.KeyPrefix)
}

// Delete removes the record stored under key. Keys outside the collection
// are reported as not found and left untouched.
func (r *Repo) Delete(ctx context.Context, key string) error {
	if !r.owns(key) {
		return fmt.Errorf("%s: %w", key, domain.ErrRecordNotFound)
	}
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", key, domain.ErrRecordNotFound)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Add stores one record per chunk in a single pipelined round-trip and returns the new keys.
// vectors[i] belongs to chunks[i].
func (r *Repo) Add(ctx context.Context, chunks []domdoc.Chunk, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%d chunks for %d vectors: %w", len(chunks), len(vectors), domain.ErrVectorDimMismatch)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	dim := len(vectors[0])
	keys := make([]string, len(chunks))
	hashes := make([]db.Hash, len(chunks))

	for i := range chunks {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("vector %d has %d dims, expected %d: %w",
				i, len(vectors[i]), dim, domain.ErrVectorDimMismatch)
		}
		md, err := encodeMetadata(chunks[i].Metadata())
		if err != nil {
			return nil, fmt.Errorf("encode metadata of chunk %d: %w", i, err)
		}
		keys[i] = r.cfg.KeyPrefix + r.newID()
		hashes[i] = db.Hash{
			Key: keys[i],
			Fields: map[string]string{
				FieldContent:  chunks[i].Text(),
				FieldMetadata: md,
				FieldVector:   db.EncodeVector(vectors[i]),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, hashes); err != nil {
		return nil, fmt.Errorf("store %d records: %w", len(hashes), err)
	}
	return keys, nil
}

// Search returns the k nearest chunks to vector, most similar first.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  FieldVector,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{FieldContent, FieldMetadata},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("search %s: %w", r.cfg.IndexName, domain.ErrIndexNotFound)
		}
		return nil, fmt.Errorf("search %s: %w", r.cfg.IndexName, err)
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		md := decodeMetadata(e.Fields[FieldMetadata])
		chunk := domdoc.ReconstructChunk(e.Fields[FieldContent], md)
		results = append(results, result.New(e.Key, e.Score, chunk))
	}
	return results, nil
}
