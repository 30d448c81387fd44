package config

import "os"

// Fallbacks without a public constant.
const (
	defaultProvider        = "openai"
	defaultReadinessSec    = 10
	defaultReadTimeoutSec  = 10
	defaultWriteTimeoutSec = 60
	defaultShutdownSec     = 10
	defaultHealthCheckSec  = 5
)

func setIfEmpty(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setIfNotPositive(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// ApplyDefaults fills unset fields. Chat credentials fall back to the
// embedding provider's, and the API key to $OPENAI_API_KEY.
func (c *Config) ApplyDefaults() {
	setIfEmpty(&c.Database.URL, DefaultDatabaseURL)
	setIfNotPositive(&c.Database.ReadinessTimeout, defaultReadinessSec)

	setIfEmpty(&c.Index.Name, DefaultIndexName)
	setIfEmpty(&c.Index.KeyPrefix, DefaultKeyPrefix)

	e := &c.Embedding
	setIfEmpty(&e.Provider, defaultProvider)
	setIfEmpty(&e.APIKey, os.Getenv("OPENAI_API_KEY"))
	setIfEmpty(&e.Model, DefaultEmbeddingModel)
	setIfNotPositive(&e.BatchSize, DefaultBatchSize)
	setIfEmpty(&e.CachePrefix, DefaultCachePrefix)

	ch := &c.Chat
	setIfEmpty(&ch.Provider, e.Provider)
	setIfEmpty(&ch.APIKey, e.APIKey)
	setIfEmpty(&ch.BaseURL, e.BaseURL)
	setIfEmpty(&ch.Model, DefaultChatModel)
	if ch.Temperature == nil {
		t := float32(DefaultTemperature)
		ch.Temperature = &t
	}

	in := &c.Ingest
	setIfEmpty(&in.Dir, DefaultIngestDir)
	if in.TextPointer == nil {
		p := DefaultTextPointer
		in.TextPointer = &p
	}
	setIfNotPositive(&in.ChunkSize, DefaultChunkSize)
	setIfEmpty(&in.Encoding, DefaultEncoding)

	setIfNotPositive(&c.Retrieval.SearchK, DefaultSearchK)
	setIfNotPositive(&c.Retrieval.AnswerK, DefaultAnswerK)

	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
	setIfNotPositive(&c.HTTP.ReadTimeoutSec, defaultReadTimeoutSec)
	setIfNotPositive(&c.HTTP.WriteTimeoutSec, defaultWriteTimeoutSec)
	setIfNotPositive(&c.HTTP.ShutdownSec, defaultShutdownSec)
	setIfNotPositive(&c.HTTP.HealthCheckSec, defaultHealthCheckSec)
}
