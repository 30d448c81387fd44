package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.URL != "redis://localhost:6379" {
		t.Errorf("database.url = %q", cfg.Database.URL)
	}
	if cfg.Index.Name != "videos-embeddings" || cfg.Index.KeyPrefix != "videos:" {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Ingest.ChunkSize != 600 || cfg.Ingest.ChunkOverlap != 0 {
		t.Errorf("chunking = %d/%d", cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	}
	if *cfg.Ingest.TextPointer != "/text" {
		t.Errorf("text_pointer = %q", *cfg.Ingest.TextPointer)
	}
	if cfg.Embedding.APIKey != "sk-env" || cfg.Chat.APIKey != "sk-env" {
		t.Errorf("api keys = %q/%q", cfg.Embedding.APIKey, cfg.Chat.APIKey)
	}
	if cfg.Chat.Provider != cfg.Embedding.Provider {
		t.Errorf("chat.provider = %q, want embedding provider %q", cfg.Chat.Provider, cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != DefaultEmbeddingModel || cfg.Chat.Model != DefaultChatModel {
		t.Errorf("models = %q/%q", cfg.Embedding.Model, cfg.Chat.Model)
	}
	if *cfg.Chat.Temperature != float32(DefaultTemperature) {
		t.Errorf("temperature = %v", *cfg.Chat.Temperature)
	}
	if cfg.Retrieval.AnswerK != 3 {
		t.Errorf("answer_k = %d", cfg.Retrieval.AnswerK)
	}
	if cfg.HTTP.Port != DefaultHTTPPort {
		t.Errorf("http.port = %d", cfg.HTTP.Port)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TQA_REDIS_URL", "redis://redis:6380/1")
	t.Setenv("TQA_KEY", "sk-file")

	data := []byte(`
database:
  url: ${TQA_REDIS_URL}
  password: ${TQA_REDIS_PASSWORD:-secret}
index:
  name: lessons
  key_prefix: "lessons:"
embedding:
  provider: proxy
  api_key: ${TQA_KEY}
  base_url: https://api.example.com/v1/
  cache: true
chat:
  provider: chat-gateway
  temperature: 0
  prompt_template: "{{.Question}}"
ingest:
  text_pointer: ""
  extensions: [".txt", "pdf"]
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.URL != "redis://redis:6380/1" {
		t.Errorf("database.url = %q", cfg.Database.URL)
	}
	if cfg.Database.Password != "secret" {
		t.Errorf("database.password = %q", cfg.Database.Password)
	}
	if cfg.Index.Name != "lessons" || cfg.Index.KeyPrefix != "lessons:" {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Embedding.APIKey != "sk-file" || !cfg.Embedding.Cache {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if cfg.Chat.BaseURL != "https://api.example.com/v1/" {
		t.Errorf("chat.base_url should fall back to embedding.base_url, got %q", cfg.Chat.BaseURL)
	}
	if cfg.Chat.Provider != "chat-gateway" || cfg.Embedding.Provider != "proxy" {
		t.Errorf("providers = %q/%q, want explicit values kept apart", cfg.Chat.Provider, cfg.Embedding.Provider)
	}
	if *cfg.Chat.Temperature != 0 {
		t.Errorf("explicit zero temperature must be kept, got %v", *cfg.Chat.Temperature)
	}
	if *cfg.Ingest.TextPointer != "" {
		t.Errorf("explicit root pointer must be kept, got %q", *cfg.Ingest.TextPointer)
	}
	if len(cfg.Ingest.Extensions) != 2 {
		t.Errorf("extensions = %v", cfg.Ingest.Extensions)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "database: [\n"},
		{"budget action", "embedding:\n  budget:\n    action: explode\n"},
		{"overlap", "ingest:\n  chunk_size: 10\n  chunk_overlap: 10\n"},
		{"negative overlap", "ingest:\n  chunk_overlap: -1\n"},
		{"temperature", "chat:\n  temperature: 3\n"},
		{"pointer", "ingest:\n  text_pointer: text\n"},
		{"port", "http:\n  port: 70000\n"},
		{"dimensions", "embedding:\n  dimensions: -5\n"},
		{"cache ttl", "embedding:\n  cache_ttl_hours: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_InvalidBudgetActionMessage(t *testing.T) {
	cfg := Config{Embedding: EmbeddingConfig{Budget: BudgetConfig{Action: "invalid_action"}}}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}
	expected := `embedding.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Embedding: EmbeddingConfig{Dimensions: -1},
		HTTP:      HTTPConfig{Port: -1},
		Ingest:    IngestConfig{ChunkSize: 100, ChunkOverlap: 200},
	}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"embedding.dimensions", "http.port", "ingest.chunk_overlap"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s:\n%v", want, err)
		}
	}
	if n := strings.Count(err.Error(), "\n") + 1; n != 3 {
		t.Errorf("got %d problems, want 3", n)
	}
}

func TestBudgetConfig_Enabled(t *testing.T) {
	if (BudgetConfig{}).Enabled() {
		t.Error("empty budget must be disabled")
	}
	if !(BudgetConfig{MonthlyTokenLimit: 10}).Enabled() {
		t.Error("monthly limit must enable the budget")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit file")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("no-such-env-for-tests")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Index.Name != DefaultIndexName {
		t.Errorf("index.name = %q", cfg.Index.Name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("retrieval:\n  search_k: 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retrieval.SearchK != 9 || cfg.Retrieval.AnswerK != DefaultAnswerK {
		t.Errorf("retrieval = %+v", cfg.Retrieval)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("expected local, got %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("expected prod, got %q", GetEnv())
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TQA_SET", "value")
	t.Setenv("TQA_EMPTY", "")

	got := string(expandEnvVars([]byte("a=${TQA_SET} b=${TQA_EMPTY:-fallback} c=${TQA_UNSET_VAR}")))
	if got != "a=value b=fallback c=" {
		t.Errorf("got %q", got)
	}
}
