package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/pkg/response"
)

// AppError carries an HTTP status and client-safe message up from a handler
// to the error middleware. Cause stays server-side, in the logs only.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

// Middleware converts every error escaping a handler into the uniform
// response envelope. Anything 5xx is collapsed to a generic message so
// internal detail never leaks to clients.
func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("http_panic path=%s recovered=%v", c.OriginalURL(), r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		status, msg, data := m.classify(err)
		if status >= 500 {
			m.logger.Printf("http_error path=%s status=%d err=%v", c.OriginalURL(), status, err)
			return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
		}
		return response.Error(c, status, msg, data)
	}
}

func (m *ErrorMiddleware) classify(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode > 0 {
		msg := appErr.Message
		if msg == "" {
			msg = statusMessage(appErr.StatusCode)
		}
		return appErr.StatusCode, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code > 0 {
		msg := fiberErr.Message
		if msg == "" {
			msg = statusMessage(fiberErr.Code)
		}
		return fiberErr.Code, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}

func statusMessage(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return response.MessageBadRequest
	case fiber.StatusUnauthorized:
		return response.MessageUnauthorized
	case fiber.StatusForbidden:
		return response.MessageForbidden
	case fiber.StatusNotFound:
		return response.MessageNotFound
	case fiber.StatusConflict:
		return response.MessageConflict
	case fiber.StatusUnprocessableEntity:
		return response.MessageUnprocessableEntity
	default:
		if status >= 500 {
			return response.MessageInternalServerError
		}
		return response.MessageError
	}
}
