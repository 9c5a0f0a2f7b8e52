package controller

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/studsovet/selection_api/internal/apperr"
	"go.uber.org/zap"
)

// newErrorHandler возвращает центральный обработчик ошибок API.
// Сентинелы apperr транслируются в коды ответов, всё остальное — 500.
func newErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var message interface{}

		switch {
		case apperr.IsValidation(err):
			code = http.StatusBadRequest
			message = err.Error()
		case apperr.IsForbidden(err):
			code = http.StatusForbidden
			message = err.Error()
		case apperr.IsNotFound(err):
			code = http.StatusNotFound
			message = err.Error()
		case apperr.IsConflict(err):
			code = http.StatusConflict
			message = err.Error()
		default:
			switch err := err.(type) {
			case *echo.HTTPError:
				code = err.Code
				message = err.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string)
				for _, vErr := range err {
					fldErrs[vErr.Field()] = vErr.Tag()
				}
				code = http.StatusBadRequest
				message = fldErrs
			default:
				code = http.StatusInternalServerError
				message = http.StatusText(http.StatusInternalServerError)
				logger.Error("Unhandled error",
					zap.String("path", c.Request().URL.Path),
					zap.Error(err),
				)
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, message)
		}
		if respErr != nil {
			logger.Error("Failed to write error response", zap.Error(respErr))
		}
	}
}
