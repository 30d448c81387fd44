package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion metrics, updated once per successful run.
var (
	IngestDocumentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_documents_total",
		Help:      "Transcript documents loaded by ingestion runs",
	})

	IngestChunksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_chunks_total",
		Help:      "Chunks written to the vector index",
	})

	IngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingest_duration_seconds",
		Help:      "Wall time of an ingestion run",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
