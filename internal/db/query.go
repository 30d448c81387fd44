package db

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// DefaultScoreField aliases the vector distance in KNN results.
const DefaultScoreField = "vector_score"

// KNNQuery is a pure vector search: the K nearest hashes of the index.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	ScoreField   string // DefaultScoreField when empty
	Vector       []float32
	K            int
	ReturnFields []string // all fields when empty
}

// ScoreAlias is the name the distance is returned under.
func (q *KNNQuery) ScoreAlias() string {
	if q.ScoreField == "" {
		return DefaultScoreField
	}
	return q.ScoreField
}

// SearchArgs renders the FT.SEARCH arguments: a DIALECT 2 KNN query with
// the vector passed as the BLOB parameter, sorted nearest first.
func (q *KNNQuery) SearchArgs() ([]string, error) {
	switch {
	case q.IndexName == "":
		return nil, errors.New("index name is required")
	case q.VectorField == "":
		return nil, errors.New("vector field is required")
	case len(q.Vector) == 0:
		return nil, errors.New("vector is required")
	case q.K <= 0:
		return nil, fmt.Errorf("k must be positive, got %d", q.K)
	}

	score := q.ScoreAlias()
	k := strconv.Itoa(q.K)
	args := []string{q.IndexName, "*=>[KNN " + k + " @" + q.VectorField + " $BLOB AS " + score + "]"}

	if len(q.ReturnFields) > 0 {
		fields := q.ReturnFields
		if !slices.Contains(fields, score) {
			fields = append(slices.Clip(fields), score)
		}
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}

	return append(args,
		"SORTBY", score, "ASC",
		"LIMIT", "0", k,
		"PARAMS", "2", "BLOB", EncodeVector(q.Vector),
		"DIALECT", "2",
	), nil
}

// SearchResult holds the hits of one query, nearest first.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is one hit. Fields excludes the score alias.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// Similarity converts a cosine distance in [0,2] to a score in [0,1].
func Similarity(distance float64) float64 {
	return min(1, max(0, 1-distance))
}

// EncodeVector packs v as little-endian FLOAT32, the layout of both stored
// vector fields and query blobs.
func EncodeVector(v []float32) string {
	buf := make([]byte, 0, len(v)*4)
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return string(buf)
}

// DecodeVector is the inverse of EncodeVector.
func DecodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob of %d bytes is not a FLOAT32 sequence", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v, nil
}
