package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/PROGPA/gpacalculaters/internal/calculator"
	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/PROGPA/gpacalculaters/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// newHTTPErrorHandler maps domain and validation errors onto JSON responses.
func newHTTPErrorHandler(v *Validator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message any
			httpErr *echo.HTTPError
			valErrs validator.ValidationErrors
		)

		switch {
		case errors.As(err, &httpErr):
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &valErrs):
			code = http.StatusBadRequest
			message = v.Translate(valErrs)
		case errors.Is(err, common.ErrNotFound):
			code = http.StatusNotFound
			message = err.Error()
		case errors.Is(err, common.ErrDuplicateEntry):
			code = http.StatusConflict
			message = err.Error()
		case errors.Is(err, common.ErrInvalidKind),
			errors.Is(err, common.ErrInvalidMode),
			errors.Is(err, common.ErrInvalidEntry),
			errors.Is(err, calculator.ErrModeMismatch),
			errors.Is(err, storage.ErrInvalidSession):
			code = http.StatusBadRequest
			message = err.Error()
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			slog.Error("Request failed",
				"method", ctx.Request().Method,
				"path", ctx.Path(),
				"error", err)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			slog.Error("Failed to write error response", "error", err)
		}
	}
}
