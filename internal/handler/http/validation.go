package http

import (
	"net/http"

	"text-summarizer/internal/handler/http/respond"
)

// Request shape limits enforced by InputValidation.
const (
	MaxPathLength  = 2048
	MaxHeaderValue = 8192
)

// InputValidation returns middleware that rejects requests with an
// oversized path (414) or an oversized header value (431) before any
// handler runs.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > MaxPathLength {
				respond.JSON(w, http.StatusRequestURITooLong, respond.ErrorBody{Error: "URI too long"})
				return
			}

			for name, values := range r.Header {
				for _, v := range values {
					if len(v) > MaxHeaderValue {
						respond.JSON(w, http.StatusRequestHeaderFieldsTooLarge,
							respond.ErrorBody{Error: name + " header too large"})
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
