package http

import (
	apperrors "access-service/pkg/errors"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	requestIDUnknown       = "unknown"
)

// statusFor maps sentinel errors onto HTTP status codes and public messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInternalServer):
		return http.StatusInternalServerError, msgInternalServerError
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrInsufficientPerms):
		return http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "Validation error"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrEmailExists):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable, "Service unavailable"
	default:
		return http.StatusInternalServerError, msgInternalServerError
	}
}

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// Client errors keep their AppError message; 5xx details are logged, never sent.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var code int
	var message string

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		code, message = statusFor(err)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && code < http.StatusInternalServerError {
			message = appErr.Message
		}
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = requestIDUnknown
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("internal_server_error request_id=%s status=%d error=%v", requestID, code, err)
		message = msgInternalServerError
	} else {
		c.Logger().Warnf("client_error request_id=%s status=%d error=%v", requestID, code, err)
	}

	if err := c.JSON(code, map[string]any{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}
