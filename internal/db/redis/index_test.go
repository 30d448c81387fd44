package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

func TestCreateIndex(t *testing.T) {
	def, err := db.NewIndex("videos-embeddings").
		Prefix("videos:").
		Vector("content_vector", db.VectorSpec{Dim: 3, M: 16}).
		Text("content").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	s, c := newTestStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match(
			"FT.CREATE", "videos-embeddings", "ON", "HASH", "PREFIX", "1", "videos:", "SCHEMA",
			"content_vector", "VECTOR", "HNSW", "8",
			"TYPE", "FLOAT32", "DIM", "3", "DISTANCE_METRIC", "COSINE", "M", "16",
			"content", "TEXT",
		)).Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.RedisError("Index already exists"))),
	)
	ctx := context.Background()

	if err := s.CreateIndex(ctx, def); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := s.CreateIndex(ctx, def); !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("second create: expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_RejectsInvalidDefinition(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateIndex(ctx, nil); err == nil {
		t.Error("expected error for nil definition")
	}
	if err := s.CreateIndex(ctx, &db.IndexDefinition{Name: "x"}); err == nil {
		t.Error("expected error for definition without fields")
	}
}

func TestDropIndex(t *testing.T) {
	s, c := newTestStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.DROPINDEX", "videos-embeddings", "DD")).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.DROPINDEX", "videos-embeddings")).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
	)
	ctx := context.Background()

	if err := s.DropIndex(ctx, "videos-embeddings", true); err != nil {
		t.Fatalf("drop with documents: %v", err)
	}
	if err := s.DropIndex(ctx, "videos-embeddings", false); !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("drop missing: expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	s, c := newTestStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).Return(mock.Result(mock.RedisArray())),
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).Return(mock.Result(mock.RedisError("idx: no such index"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("FT.INFO", "idx")).Return(mock.ErrorResult(context.Canceled)),
	)
	ctx := context.Background()

	if ok, err := s.IndexExists(ctx, "idx"); err != nil || !ok {
		t.Errorf("present = %v, %v", ok, err)
	}
	if ok, err := s.IndexExists(ctx, "idx"); err != nil || ok {
		t.Errorf("missing = %v, %v", ok, err)
	}
	if _, err := s.IndexExists(ctx, "idx"); !errors.Is(err, context.Canceled) {
		t.Errorf("transport error = %v", err)
	}
}
