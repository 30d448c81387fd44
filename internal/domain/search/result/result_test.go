package result

import (
	"testing"

	domdoc "github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

func TestNew_Accessors(t *testing.T) {
	chunk := domdoc.ReconstructChunk("hello", map[string]string{domdoc.MetaSource: "a.json"})
	r := New("videos:1", 0.75, chunk)

	if r.Key() != "videos:1" {
		t.Errorf("Key() = %q", r.Key())
	}
	if r.Score() != 0.75 {
		t.Errorf("Score() = %f", r.Score())
	}
	if r.Content() != "hello" {
		t.Errorf("Content() = %q", r.Content())
	}
	c := r.Chunk()
	if c.Source() != "a.json" {
		t.Errorf("Chunk().Source() = %q", c.Source())
	}
}

func TestSortByScore(t *testing.T) {
	results := []Result{
		New("a", 0.2, domdoc.Chunk{}),
		New("b", 0.9, domdoc.Chunk{}),
		New("c", 0.5, domdoc.Chunk{}),
		New("d", 0.9, domdoc.Chunk{}),
	}
	SortByScore(results)

	want := []string{"b", "d", "c", "a"}
	for i, k := range want {
		if results[i].Key() != k {
			t.Errorf("results[%d] = %s, want %s", i, results[i].Key(), k)
		}
	}
}
