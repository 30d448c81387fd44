package redis

import (
	"context"
	"errors"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if def == nil {
		return errors.New("index definition is required")
	}
	args, err := def.CreateArgs()
	if err != nil {
		return err
	}
	if err := s.do(ctx, s.b().Arbitrary(db.OpCreateIndex).Args(args...).Build()).Error(); err != nil {
		return indexError(db.OpCreateIndex, err)
	}
	return nil
}

func (s *Store) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	args := []string{name}
	if deleteDocs {
		args = append(args, "DD")
	}
	if err := s.do(ctx, s.b().Arbitrary(db.OpDropIndex).Args(args...).Build()).Error(); err != nil {
		return indexError(db.OpDropIndex, err)
	}
	return nil
}

// IndexExists asks FT.INFO; a missing-index reply means false.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	err := s.do(ctx, s.b().Arbitrary(db.OpIndexInfo).Args(name).Build()).Error()
	if err == nil {
		return true, nil
	}
	if err = indexError(db.OpIndexInfo, err); errors.Is(err, db.ErrIndexNotFound) {
		return false, nil
	}
	return false, err
}
