package middlewares

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/params"
)

// HTTPError carries the status and the client facing message of a failed request.
// Err is the underlying cause and is only exposed in debug mode.
type HTTPError struct {
	Code    int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewErrorHandler returns the fiber error handler writing the JSON error body.
func NewErrorHandler(debug bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := params.MsgInternalServerError

		var httpErr *HTTPError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		var locked *security.LockedError
		if errors.As(err, &locked) {
			code = fiber.StatusTooManyRequests
			if httpErr == nil {
				message = params.MsgTooManyLoginAttempts
			}
			seconds := int(locked.RetryAfter(time.Now()) / time.Second)
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		}

		if code >= fiber.StatusInternalServerError {
			slog.Error("Request failed", "method", ctx.Method(), "path", ctx.Path(), "code", code, "error", err)
		} else {
			slog.Debug("Request rejected", "method", ctx.Method(), "path", ctx.Path(), "code", code, "error", err)
		}

		resp := ErrorResponse{Message: message, Error: utils.StatusMessage(code)}
		if httpErr != nil {
			resp.Fields = httpErr.Fields
		}
		if debug {
			resp.Error = err.Error()
		}
		return ctx.Status(code).JSON(resp)
	}
}
