package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/services/logging"
	"go.uber.org/zap"
)

const MsgInternal = "Internal server error"

type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders every failure as HTTP 200 with an error body.
// Errors that are not application errors are logged and replaced with a
// generic message.
func ErrorHandler(logger *logging.Service) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		message := errorMessage(err)
		if message == MsgInternal {
			logger.Error("unhandled error",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
		}

		if writeErr := c.JSON(http.StatusOK, ErrorResponse{Error: message}); writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}

func errorMessage(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			return "Not found"
		case http.StatusMethodNotAllowed:
			return "Method not allowed"
		case http.StatusRequestEntityTooLarge:
			return "Request too large"
		}
		if httpErr.Code < http.StatusInternalServerError {
			return http.StatusText(httpErr.Code)
		}
	}

	return MsgInternal
}
