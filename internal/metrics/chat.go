package metrics

// Chat-completion provider metrics.
var (
	ChatRequestsTotal = counterVec("chat_requests_total",
		"Chat-completion requests by outcome", "provider", "model", "status")

	ChatRequestDuration = histogramVec("chat_request_duration_seconds",
		"Latency of successful chat-completion requests",
		[]float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40}, "provider", "model")

	// type is "prompt" or "completion".
	ChatTokensTotal = counterVec("chat_tokens_total",
		"Tokens billed for chat completions", "provider", "model", "type")
)
