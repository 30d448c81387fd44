package redis

import (
	"context"
	"maps"
	"slices"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

// HSetMulti pipelines one HSET per hash and reports the first failed key.
// Fields are written in name order.
func (s *Store) HSetMulti(ctx context.Context, hashes []db.Hash) error {
	if len(hashes) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, 0, len(hashes))
	for _, h := range hashes {
		cmd := s.b().Hset().Key(h.Key).FieldValue()
		for _, name := range slices.Sorted(maps.Keys(h.Fields)) {
			cmd = cmd.FieldValue(name, h.Fields[name])
		}
		cmds = append(cmds, cmd.Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Key: hashes[i].Key, Err: err}
		}
	}
	return nil
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.do(ctx, s.b().Hgetall().Key(key).Build()).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Key: key, Err: err}
	}
	return fields, nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.do(ctx, s.b().Del().Key(keys...).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Key: key, Err: err}
	}
	return n == 1, nil
}
