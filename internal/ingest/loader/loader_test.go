package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func jsonOnly(t *testing.T) map[string]Loader {
	t.Helper()
	loaders, err := ForExtensions(nil, DefaultTextPointer)
	if err != nil {
		t.Fatalf("ForExtensions: %v", err)
	}
	return loaders
}

func TestJSONLoader_String(t *testing.T) {
	l, err := NewJSONLoader("/text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docs, err := l.Load("tmp/a.json", []byte(`{"text": "Hello world. Hello world.", "title": "x"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Text() != "Hello world. Hello world." {
		t.Errorf("unexpected text %q", docs[0].Text())
	}
	md := docs[0].Metadata()
	if md[document.MetaSource] != "tmp/a.json" || md[document.MetaLine] != "1" {
		t.Errorf("unexpected metadata %v", md)
	}
}

func TestJSONLoader_ArrayOfStrings(t *testing.T) {
	l, _ := NewJSONLoader("/text")
	docs, err := l.Load("a.json", []byte(`{"text": ["first", "second", "third"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if docs[i].Text() != want {
			t.Errorf("doc %d: got %q, want %q", i, docs[i].Text(), want)
		}
		md := docs[i].Metadata()
		if md[document.MetaLine] != string(rune('1'+i)) {
			t.Errorf("doc %d: unexpected line %q", i, md[document.MetaLine])
		}
	}
}

func TestJSONLoader_NestedPointer(t *testing.T) {
	l, _ := NewJSONLoader("/video/segments/1")
	docs, err := l.Load("a.json", []byte(`{"video": {"segments": ["a", "b"]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Text() != "b" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestJSONLoader_Errors(t *testing.T) {
	l, _ := NewJSONLoader("/text")
	if _, err := l.Load("a.json", []byte(`{"text": `)); err == nil {
		t.Error("expected error for invalid json")
	}
	if _, err := l.Load("a.json", []byte(`{"body": "x"}`)); err == nil {
		t.Error("expected error for missing pointer")
	}
	if _, err := NewJSONLoader("text"); err == nil {
		t.Error("expected error for pointer without leading slash")
	}
}

func TestPointerToPath(t *testing.T) {
	tests := []struct {
		pointer, want string
	}{
		{"", "@this"},
		{"/text", "text"},
		{"/a/0/b", "a.0.b"},
		{"/a.b", `a\.b`},
		{"/a~1b", "a/b"},
		{"/m~0n", "m~n"},
		{"/what?", `what\?`},
	}
	for _, tc := range tests {
		got, err := pointerToPath(tc.pointer)
		if err != nil {
			t.Fatalf("pointerToPath(%q): %v", tc.pointer, err)
		}
		if got != tc.want {
			t.Errorf("pointerToPath(%q) = %q, want %q", tc.pointer, got, tc.want)
		}
	}
}

func TestTextLoader(t *testing.T) {
	docs, err := TextLoader{}.Load("notes.txt", []byte("plain transcript"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Text() != "plain transcript" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestPDFLoader_Invalid(t *testing.T) {
	if _, err := (PDFLoader{}).Load("a.pdf", nil); err == nil {
		t.Error("expected error for empty content")
	}
	if _, err := (PDFLoader{}).Load("a.pdf", []byte("not a pdf")); err == nil {
		t.Error("expected error for invalid content")
	}
}

func TestForExtensions(t *testing.T) {
	loaders, err := ForExtensions([]string{"txt", ".PDF", ".json"}, "/text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ext := range []string{".json", ".txt", ".pdf"} {
		if _, ok := loaders[ext]; !ok {
			t.Errorf("missing loader for %s", ext)
		}
	}
	if _, err := ForExtensions([]string{".docx"}, "/text"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDirectoryLoader_RecursiveSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), `{"text": "second"}`)
	writeFile(t, filepath.Join(dir, "a.json"), `{"text": "first"}`)
	writeFile(t, filepath.Join(dir, "nested", "c.json"), `{"text": "third"}`)
	writeFile(t, filepath.Join(dir, "readme.md"), "ignored")

	docs, err := NewDirectoryLoader(jsonOnly(t), nil).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if docs[i].Text() != want {
			t.Errorf("doc %d: got %q, want %q", i, docs[i].Text(), want)
		}
	}
	if docs[2].Source() != filepath.Join(dir, "nested", "c.json") {
		t.Errorf("unexpected source %q", docs[2].Source())
	}
}

func TestDirectoryLoader_CaseInsensitiveExt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.JSON"), `{"text": "upper"}`)

	docs, err := NewDirectoryLoader(jsonOnly(t), nil).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
}

func TestDirectoryLoader_Errors(t *testing.T) {
	l := NewDirectoryLoader(jsonOnly(t), nil)

	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "a.json")
	writeFile(t, file, `{"text": "x"}`)
	if _, err := l.Load(context.Background(), file); err == nil {
		t.Error("expected error for non-directory path")
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.json"), `{"text": `)
	if _, err := l.Load(context.Background(), dir); err == nil {
		t.Error("expected error for broken json file")
	}
}

func TestDirectoryLoader_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"text": "x"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDirectoryLoader(jsonOnly(t), nil).Load(ctx, dir); err == nil {
		t.Error("expected context error")
	}
}
