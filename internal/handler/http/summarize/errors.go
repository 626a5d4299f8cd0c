package summarize

import (
	"errors"
	"net/http"

	"text-summarizer/internal/handler/http/respond"
	sumUC "text-summarizer/internal/usecase/summarize"
)

// clientErrors are returned to the client with their own message.
var clientErrors = []error{
	sumUC.ErrNoText,
	sumUC.ErrEmptyText,
	sumUC.ErrInvalidJSON,
	sumUC.ErrSentenceCountTooSmall,
	sumUC.ErrSentenceCountTooLarge,
	sumUC.ErrInvalidMode,
	sumUC.ErrInvalidFormat,
	sumUC.ErrUnsupportedFormat,
	sumUC.ErrURLRequired,
}

// toAppError maps a use case error to the status and message sent to the
// client. Unknown errors become a generic 500 with the cause logged.
func toAppError(err error) *respond.AppError {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return respond.NewAppError(http.StatusBadRequest, err.Error(), err)
		}
	}

	switch {
	case errors.Is(err, sumUC.ErrTextTooLong):
		return respond.NewAppError(http.StatusRequestEntityTooLarge, err.Error(), err)
	case errors.Is(err, sumUC.ErrFetchUnavailable):
		return respond.NewAppError(http.StatusServiceUnavailable, err.Error(), err)
	case errors.Is(err, sumUC.ErrFetchFailed):
		return fetchError(err)
	default:
		return respond.NewAppError(http.StatusInternalServerError, respond.GenericErrorMessage, err)
	}
}

func fetchError(err error) *respond.AppError {
	switch {
	case errors.Is(err, sumUC.ErrPrivateIP):
		return respond.NewAppError(http.StatusBadRequest, "url must not point to a private address", err)
	case sumUC.IsClientFetchError(err):
		return respond.NewAppError(http.StatusBadRequest, "invalid url", err)
	case errors.Is(err, sumUC.ErrTimeout):
		return respond.NewAppError(http.StatusGatewayTimeout, "the page took too long to respond", err)
	case errors.Is(err, sumUC.ErrBodyTooLarge):
		return respond.NewAppError(http.StatusBadGateway, "the page is too large", err)
	default:
		return respond.NewAppError(http.StatusBadGateway, sumUC.ErrFetchFailed.Error(), err)
	}
}
