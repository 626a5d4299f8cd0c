package metrics

import (
	"time"
)

// Content fetch results.
const (
	ResultSuccess     = "success"
	ResultClientError = "client_error"
	ResultFailure     = "failure"
	ResultSkipped     = "skipped"
)

// RecordContentFetch records one FetchContent call. result is one of the
// Result constants; size is only observed on success.
func RecordContentFetch(result string, duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues(result).Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	if result == ResultSuccess {
		ContentFetchSize.Observe(float64(size))
	}
}

// RecordContentFetchSkipped records a feed item whose own text was long
// enough that the linked page was not fetched.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues(ResultSkipped).Inc()
}

// RecordFeedFetch records one feed fetch and the number of items parsed.
func RecordFeedFetch(success bool, duration time.Duration, items int) {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	FeedFetchTotal.WithLabelValues(result).Inc()
	FeedFetchDuration.Observe(duration.Seconds())
	if items > 0 {
		FeedItemsTotal.Add(float64(items))
	}
}

// RecordRateLimited records a request rejected with 429.
func RecordRateLimited(path string) {
	RateLimitedTotal.WithLabelValues(path).Inc()
}

// SetCircuitBreakerState publishes a breaker state. state follows the
// gobreaker ordering: 0 closed, 1 half-open, 2 open.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
