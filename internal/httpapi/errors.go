package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"GovAI/internal/domain"
)

// Error kinds used only at the HTTP edge.
const (
	kindInvalidRequest = "InvalidRequest"
	kindUnauthorized   = "Unauthorized"
	kindNotFound       = "NotFound"
	kindRateLimited    = "RateLimited"
	kindCancelled      = "Cancelled"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// errorHandler renders every error as {"error":{"kind","message"}}.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request error", "path", c.Path(), "status", status, "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("write error response", "error", writeErr)
		}
	}
}

func classify(err error) (int, errorBody) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr.HTTPStatus(), errorBody{Error: errorDetail{Kind: string(derr.Kind), Message: derr.Message}}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout, errorBody{Error: errorDetail{Kind: kindCancelled, Message: err.Error()}}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{Error: errorDetail{Kind: kindForStatus(he.Code), Message: fmt.Sprint(he.Message)}}
	}

	return http.StatusInternalServerError, errorBody{Error: errorDetail{
		Kind:    string(domain.KindInternalFailure),
		Message: http.StatusText(http.StatusInternalServerError),
	}}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return kindInvalidRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return kindUnauthorized
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return kindNotFound
	case http.StatusTooManyRequests:
		return kindRateLimited
	default:
		return string(domain.KindInternalFailure)
	}
}
