package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/transcriptqa/internal/db"
)

func TestHSetMulti_PipelinesSortedFields(t *testing.T) {
	s, c := newTestStore(t)
	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("HSET", "videos:1", "content", "a", "content_vector", "\x00\x00\x80\x3f", "metadata", "{}"),
			mock.Match("HSET", "videos:2", "content", "b"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(3)),
			mock.Result(mock.RedisInt64(1)),
		})

	err := s.HSetMulti(context.Background(), []db.Hash{
		{Key: "videos:1", Fields: map[string]string{
			"metadata": "{}", "content": "a", "content_vector": db.EncodeVector([]float32{1}),
		}},
		{Key: "videos:2", Fields: map[string]string{"content": "b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_ReportsFailedKey(t *testing.T) {
	s, c := newTestStore(t)
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisError("OOM command not allowed")),
		})

	err := s.HSetMulti(context.Background(), []db.Hash{
		{Key: "videos:1", Fields: map[string]string{"content": "a"}},
		{Key: "videos:2", Fields: map[string]string{"content": "b"}},
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected db.Error, got %v", err)
	}
	if dbErr.Op != db.OpHSet || dbErr.Key != "videos:2" {
		t.Errorf("error = %+v, want HSET on videos:2", dbErr)
	}
}

func TestHSetMulti_EmptyIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHGetAll(t *testing.T) {
	s, c := newTestStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "videos:1")).Return(mock.Result(mock.RedisArray(
			mock.RedisString("content"), mock.RedisString("hello"),
			mock.RedisString("metadata"), mock.RedisString(`{"source":"a.json"}`),
		))),
		c.EXPECT().Do(gomock.Any(), mock.Match("HGETALL", "videos:2")).Return(mock.Result(mock.RedisArray())),
	)

	fields, err := s.HGetAll(context.Background(), "videos:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["content"] != "hello" || fields["metadata"] != `{"source":"a.json"}` {
		t.Errorf("fields = %v", fields)
	}

	missing, err := s.HGetAll(context.Background(), "videos:2")
	if err != nil || len(missing) != 0 {
		t.Errorf("missing key = %v, %v; want empty map", missing, err)
	}
}

func TestDelAndExists(t *testing.T) {
	s, c := newTestStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "videos:1")).Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().Do(gomock.Any(), mock.Match("DEL", "videos:1", "videos:2")).Return(mock.Result(mock.RedisInt64(2))),
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "videos:1")).Return(mock.Result(mock.RedisInt64(0))),
	)
	ctx := context.Background()

	if ok, err := s.Exists(ctx, "videos:1"); err != nil || !ok {
		t.Fatalf("Exists before delete = %v, %v", ok, err)
	}
	if err := s.Del(ctx, "videos:1", "videos:2"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, err := s.Exists(ctx, "videos:1"); err != nil || ok {
		t.Fatalf("Exists after delete = %v, %v", ok, err)
	}
	if err := s.Del(ctx); err != nil {
		t.Errorf("Del without keys: %v", err)
	}
}
