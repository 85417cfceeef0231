package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "ecomstore/internal/errors"
)

// ErrorHandler renders every handler error as an ErrorResponse.
type ErrorHandler struct {
	log zerolog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(log zerolog.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// Handle implements echo.HTTPErrorHandler.
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := h.resolve(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.log.Error().
			Err(err).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("unhandled error")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(httpErr.StatusCode)
	} else {
		writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if writeErr != nil {
		h.log.Error().Err(writeErr).Msg("write error response")
	}
}

func (h *ErrorHandler) resolve(err error) *apperrors.HTTPError {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return apperrors.NewHTTPError(echoErr.Code, echoMessage(echoErr), codeForStatus(echoErr.Code))
	}
	return apperrors.MapErrorToHTTP(err)
}

func echoMessage(err *echo.HTTPError) string {
	switch msg := err.Message.(type) {
	case string:
		return msg
	case error:
		return msg.Error()
	case nil:
		return http.StatusText(err.Code)
	default:
		return fmt.Sprint(msg)
	}
}

// codeForStatus derives a machine readable code from a status, e.g. 404 -> NOT_FOUND.
func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
