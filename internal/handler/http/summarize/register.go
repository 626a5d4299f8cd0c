package summarize

import "net/http"

// Register adds the summarization routes and the front-end to mux.
// POST /summarize is kept for clients of the earlier deployment.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /api/summarize", TextHandler{svc})
	mux.Handle("POST /summarize", TextHandler{svc})
	mux.Handle("POST /api/summarize/url", URLHandler{svc})
	mux.Handle("GET /{$}", IndexHandler{})
}
