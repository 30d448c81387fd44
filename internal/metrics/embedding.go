package metrics

// Embedding provider metrics. provider and model label every series.
var (
	EmbeddingRequestsTotal = counterVec("embedding_requests_total",
		"Embedding API requests by outcome", "provider", "model", "status")

	EmbeddingRequestDuration = histogramVec("embedding_request_duration_seconds",
		"Latency of successful embedding API requests",
		[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, "provider", "model")

	// type is "prompt" or "total".
	EmbeddingTokensTotal = counterVec("embedding_tokens_total",
		"Tokens billed for embedding requests", "provider", "model", "type")

	// error_type is "api_error" or "invalid_response".
	EmbeddingErrorsTotal = counterVec("embedding_errors_total",
		"Failed embedding API requests by cause", "provider", "model", "error_type")

	// period is "daily" or "monthly"; -1 means unlimited.
	EmbeddingBudgetTokensRemaining = gaugeVec("embedding_budget_tokens_remaining",
		"Embedding tokens left in the current budget window", "provider", "period")

	// result is "hit" or "miss".
	EmbeddingCacheTotal = counterVec("embedding_cache_total",
		"Embedding cache lookups by result", "result")
)
