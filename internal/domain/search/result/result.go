package result

import (
	"sort"

	domdoc "github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

// Result is a single retrieval hit: a stored chunk and its similarity score.
type Result struct {
	key   string
	score float64
	chunk domdoc.Chunk
}

// New creates a search result.
func New(key string, score float64, chunk domdoc.Chunk) Result {
	return Result{key: key, score: score, chunk: chunk}
}

// Key returns the storage key of the record.
func (r *Result) Key() string { return r.key }

// Score returns the similarity score in [0,1], higher is closer.
func (r *Result) Score() float64 { return r.score }

// Chunk returns the stored chunk.
func (r *Result) Chunk() domdoc.Chunk { return r.chunk }

// Content returns the chunk text.
func (r *Result) Content() string { return r.chunk.Text() }

// SortByScore orders results by non-increasing score, keeping the original order for ties.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
}
