// Package metrics holds the process-wide Prometheus collectors for HTTP
// traffic, remote content fetching and feed fetching.
//
// Collectors register with the default registry and are served on /metrics.
// Summarization counters live with the summarizer adapter in
// internal/infra/summarizer.
//
//	start := time.Now()
//	text, err := fetcher.FetchContent(ctx, url)
//	metrics.RecordContentFetch(err, time.Since(start), len(text))
package metrics
