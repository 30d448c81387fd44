// Package config loads the YAML configuration shared by every subcommand.
// Values are read from config/<env>.yaml with ${VAR} expansion, then
// defaulted and validated.
package config

// Defaults. The index address matches the layout ingestion and retrieval share.
const (
	DefaultDatabaseURL    = "redis://localhost:6379"
	DefaultIndexName      = "videos-embeddings"
	DefaultKeyPrefix      = "videos:"
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultChatModel      = "gpt-3.5-turbo"
	DefaultTemperature    = 0.3
	DefaultTextPointer    = "/text"
	DefaultEncoding       = "cl100k_base"
	DefaultChunkSize      = 600
	DefaultIngestDir      = "transcripts"
	DefaultSearchK        = 5
	DefaultAnswerK        = 3
	DefaultBatchSize      = 256
	DefaultCachePrefix    = "transcriptqa:emb_cache:"
	DefaultHTTPPort       = 8080
)

// Config is the root of the YAML document.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	URL              string `yaml:"url"`
	Password         string `yaml:"password"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// IndexConfig addresses the vector index shared by ingestion and retrieval.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	HNSWM           int    `yaml:"hnsw_m"`               // 0 = server default
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"` // 0 = server default
}

// EmbeddingConfig holds embeddings provider settings.
type EmbeddingConfig struct {
	Provider    string       `yaml:"provider"`
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	Dimensions  int          `yaml:"dimensions"` // 0 = model default
	BatchSize   int          `yaml:"batch_size"`
	Cache       bool         `yaml:"cache"`
	CachePrefix string       `yaml:"cache_prefix"`
	CacheTTLHrs int          `yaml:"cache_ttl_hours"` // 0 = no expiry
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

func (b BudgetConfig) Enabled() bool {
	return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0
}

// ChatConfig holds chat-completion provider settings.
// Provider, APIKey and BaseURL fall back to the embedding provider's.
type ChatConfig struct {
	Provider       string   `yaml:"provider"` // metrics label
	APIKey         string   `yaml:"api_key"`
	BaseURL        string   `yaml:"base_url"`
	Model          string   `yaml:"model"`
	Temperature    *float32 `yaml:"temperature"`
	PromptTemplate string   `yaml:"prompt_template"`
}

// IngestConfig holds loader and splitter settings.
type IngestConfig struct {
	Dir          string   `yaml:"dir"`
	TextPointer  *string  `yaml:"text_pointer"` // "" addresses the document root
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	Encoding     string   `yaml:"encoding"`
	Extensions   []string `yaml:"extensions"` // in addition to .json
}

// RetrievalConfig holds result counts of the query and answer flows.
type RetrievalConfig struct {
	SearchK int `yaml:"search_k"`
	AnswerK int `yaml:"answer_k"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	HealthCheckSec  int `yaml:"health_check_timeout_sec"`
}

// AuthConfig lists the accepted bearer tokens of the HTTP API. Empty disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error; empty picks by env
}
