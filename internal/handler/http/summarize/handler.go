package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"text-summarizer/internal/handler/http/respond"
	sumUC "text-summarizer/internal/usecase/summarize"
)

// Service is the part of the summarize use case the handlers need.
type Service interface {
	Summarize(ctx context.Context, in sumUC.Input) (*sumUC.Output, error)
	SummarizeURL(ctx context.Context, in sumUC.URLInput) (*sumUC.Output, error)
}

// TextHandler summarizes text posted as JSON.
type TextHandler struct{ Svc Service }

// ServeHTTP summarizes text
// @Summary      Summarize text
// @Description  Returns the most representative sentences of the text in their original order.
// @Description  Mode "frequency" scores sentences by word frequency, "truncation" keeps the leading sentences.
// @Tags         summarize
// @Accept       json
// @Produce      json
// @Param        request body Request true "Text to summarize"
// @Success      200 {object} Response
// @Failure      400 {object} respond.ErrorBody "No text provided, Text cannot be empty, Invalid JSON or invalid options"
// @Failure      413 {object} respond.ErrorBody "Text too long"
// @Failure      429 {object} respond.ErrorBody "Rate limit exceeded"
// @Failure      500 {object} respond.ErrorBody "Internal server error"
// @Router       /api/summarize [post]
func (h TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := decode(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.Svc.Summarize(r.Context(), sumUC.Input{
		Text:          req.Text,
		SentenceCount: sentenceCount(req.SentenceCount, req.Length),
		Mode:          req.Mode,
		Language:      req.Language,
		Format:        req.Format,
	})
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, toAppError(err))
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(out))
}

// URLHandler fetches an article and summarizes its text.
type URLHandler struct{ Svc Service }

// ServeHTTP summarizes a web page
// @Summary      Summarize a web page
// @Description  Downloads the page, extracts the article text and summarizes it.
// @Description  Private and loopback addresses are rejected.
// @Tags         summarize
// @Accept       json
// @Produce      json
// @Param        request body URLRequest true "Page to summarize"
// @Success      200 {object} Response
// @Failure      400 {object} respond.ErrorBody "Invalid JSON, missing or disallowed URL, or invalid options"
// @Failure      502 {object} respond.ErrorBody "The page could not be fetched"
// @Failure      503 {object} respond.ErrorBody "URL summarization is not configured"
// @Failure      504 {object} respond.ErrorBody "The page took too long to respond"
// @Router       /api/summarize/url [post]
func (h URLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := decode(r, &req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err)
		return
	}

	out, err := h.Svc.SummarizeURL(r.Context(), sumUC.URLInput{
		URL:           req.URL,
		SentenceCount: sentenceCount(req.SentenceCount, req.Length),
		Mode:          req.Mode,
		Language:      req.Language,
	})
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, toAppError(err))
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(out))
}

// decode reads one JSON value from the body. Oversized bodies map to 413,
// every other decoding problem to "Invalid JSON".
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return respond.NewAppError(http.StatusRequestEntityTooLarge, "request body too large", err)
	}
	return respond.NewAppError(http.StatusBadRequest, sumUC.ErrInvalidJSON.Error(), err)
}

func toResponse(out *sumUC.Output) Response {
	return Response{
		Summary:        out.Summary,
		SentenceCount:  out.SentenceCount,
		TotalSentences: out.TotalSentences,
		Mode:           string(out.Mode),
		Language:       out.Language,
		Source:         out.Source,
	}
}
