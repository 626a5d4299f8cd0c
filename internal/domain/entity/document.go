// Package entity defines the values passed between the summarization use
// cases and their adapters: feeds, feed items and the digests built from them.
package entity

import "time"

// FeedItem is a single entry read from an RSS or Atom feed.
// Content may be HTML; it is converted to text before summarization.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	PublishedAt time.Time
}

// ItemSummary is the extractive summary of one feed item.
// Error is set instead of Summary when the item could not be summarized.
type ItemSummary struct {
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"published_at,omitzero"`
	Summary        string    `json:"summary,omitempty"`
	TotalSentences int       `json:"total_sentences"`
	Error          string    `json:"error,omitempty"`
}

// Digest collects the item summaries produced for one feed.
type Digest struct {
	Feed        Feed          `json:"feed"`
	GeneratedAt time.Time     `json:"generated_at"`
	Items       []ItemSummary `json:"items"`
	Failed      int           `json:"failed"`
}
