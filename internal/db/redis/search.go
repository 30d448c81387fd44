package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

// SearchKNN runs q through FT.SEARCH and converts distances to similarity.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	args, err := q.SearchArgs()
	if err != nil {
		return nil, err
	}
	reply, err := s.do(ctx, s.b().Arbitrary(db.OpSearch).Args(args...).Build()).ToArray()
	if err != nil {
		return nil, indexError(db.OpSearch, err)
	}
	return parseSearchReply(reply, q.ScoreAlias())
}

// parseSearchReply reads the RESP2 reply [total, key, [field, value, ...], ...].
// Hits whose key or field list cannot be read are skipped.
func parseSearchReply(reply []rueidis.RedisMessage, scoreField string) (*db.SearchResult, error) {
	res := &db.SearchResult{}
	if len(reply) == 0 {
		return res, nil
	}
	total, err := reply[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse search total: %w", err)
	}
	res.Total = int(total)

	hits := reply[1:]
	res.Entries = make([]db.SearchEntry, 0, len(hits)/2)
	for ; len(hits) >= 2; hits = hits[2:] {
		fields, ok := stringPairs(&hits[1])
		if !ok || !hits[0].IsString() {
			continue
		}
		key, _ := hits[0].ToString()

		entry := db.SearchEntry{Key: key, Fields: fields}
		if raw, ok := fields[scoreField]; ok {
			delete(fields, scoreField)
			if d, err := strconv.ParseFloat(raw, 64); err == nil {
				entry.Score = db.Similarity(d)
			}
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

// stringPairs reads a flat [name, value, ...] array. Conversions are guarded
// by type checks since rueidis panics on mismatched message types.
func stringPairs(m *rueidis.RedisMessage) (map[string]string, bool) {
	if !m.IsArray() {
		return nil, false
	}
	items, _ := m.ToArray()
	fields := make(map[string]string, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		if !items[i].IsString() || !items[i+1].IsString() {
			continue
		}
		name, _ := items[i].ToString()
		value, _ := items[i+1].ToString()
		fields[name] = value
	}
	return fields, true
}
