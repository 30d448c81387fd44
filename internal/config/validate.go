package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every invalid setting, one per line.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Database.URL != "", "database.url is required")
	check(c.Index.HNSWM >= 0, "index.hnsw_m must not be negative, got %d", c.Index.HNSWM)
	check(c.Index.HNSWEFConstruct >= 0,
		"index.hnsw_ef_construction must not be negative, got %d", c.Index.HNSWEFConstruct)

	e := c.Embedding
	check(e.Dimensions >= 0, "embedding.dimensions must not be negative, got %d", e.Dimensions)
	check(e.CacheTTLHrs >= 0, "embedding.cache_ttl_hours must not be negative, got %d", e.CacheTTLHrs)
	check(e.Budget.DailyTokenLimit >= 0 && e.Budget.MonthlyTokenLimit >= 0,
		"embedding.budget limits must not be negative")
	switch e.Budget.Action {
	case "", "warn", "reject":
	default:
		check(false, `embedding.budget.action must be "warn" or "reject", got %q`, e.Budget.Action)
	}

	if t := c.Chat.Temperature; t != nil {
		check(*t >= 0 && *t <= 2, "chat.temperature must be between 0 and 2, got %v", *t)
	}

	in := c.Ingest
	check(in.ChunkOverlap >= 0 && in.ChunkOverlap < in.ChunkSize,
		"ingest.chunk_overlap must be in [0, %d), got %d", in.ChunkSize, in.ChunkOverlap)
	if in.TextPointer != nil {
		p := *in.TextPointer
		check(p == "" || strings.HasPrefix(p, "/"), "ingest.text_pointer must be empty or start with '/', got %q", p)
	}

	check(c.HTTP.Port > 0 && c.HTTP.Port <= 65535, "http.port must be between 1 and 65535, got %d", c.HTTP.Port)

	return errors.Join(errs...)
}
