// Package summarize provides the HTTP handlers for text and URL
// summarization and the browser front-end.
package summarize

// Request is the body of POST /api/summarize.
type Request struct {
	Text          *string `json:"text" example:"Cats chase mice. Mice flee cats. Dogs chase cats."`
	SentenceCount *int    `json:"sentence_count,omitempty" example:"2"`
	// Length is accepted as an alias of SentenceCount.
	Length   *int   `json:"length,omitempty" swaggerignore:"true"`
	Mode     string `json:"mode,omitempty" example:"frequency" enums:"frequency,truncation"`
	Language string `json:"language,omitempty" example:"english"`
	Format   string `json:"format,omitempty" example:"text" enums:"text,html"`
}

// URLRequest is the body of POST /api/summarize/url.
type URLRequest struct {
	URL           string `json:"url" example:"https://example.com/article"`
	SentenceCount *int   `json:"sentence_count,omitempty" example:"3"`
	Length        *int   `json:"length,omitempty" swaggerignore:"true"`
	Mode          string `json:"mode,omitempty" example:"frequency" enums:"frequency,truncation"`
	Language      string `json:"language,omitempty" example:"english"`
}

// Response is a successful summarization.
type Response struct {
	Summary        string `json:"summary" example:"Cats chase mice. Mice flee cats."`
	SentenceCount  int    `json:"sentence_count" example:"2"`
	TotalSentences int    `json:"total_sentences" example:"3"`
	Mode           string `json:"mode" example:"frequency"`
	Language       string `json:"language,omitempty" example:"english"`
	Source         string `json:"source,omitempty" example:"https://example.com/article"`
}

// sentenceCount prefers sentence_count and falls back to length.
func sentenceCount(count, length *int) *int {
	if count != nil {
		return count
	}
	return length
}
