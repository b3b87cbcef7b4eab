package server

import (
	"net/http"

	"nbview/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var (
	errUnknownFormat = echo.NewHTTPError(http.StatusBadRequest, "format must be one of json, html, text")
	errTooLarge      = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "notebook exceeds the size limit")
)

// newHTTPErrorHandler maps handler errors to a JSON body {"message": ...}.
// Anything that is not an *echo.HTTPError is logged and reported as a 500.
func newHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			log.WithError(err).
				WithField(logger.RequestIDField, ctx.Response().Header().Get(echo.HeaderXRequestID)).
				Error("request failed")
		}

		if ctx.Response().Committed {
			return
		}
		var respErr error
		if ctx.Request().Method == http.MethodHead {
			respErr = ctx.NoContent(code)
		} else {
			respErr = ctx.JSON(code, map[string]interface{}{"message": message})
		}
		if respErr != nil {
			log.WithError(respErr).Error("write error response")
		}
	}
}
