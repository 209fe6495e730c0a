package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kundihq/kundi/core"
)

var (
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errNothingStaged        = echo.NewHTTPError(http.StatusConflict, "no edit is pending")
	errHTTPNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

func newAppHTTPErrorHandler(deps ServerDeps, shutdown func()) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message interface{}

		switch err := err.(type) {
		case *echo.HTTPError:
			if err == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = err.Message
				break
			}
			if err.Internal != nil {
				if herr, ok := err.Internal.(*echo.HTTPError); ok {
					err = herr
				}
			}
			code = err.Code
			message = err.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string)
			for _, vErr := range err {
				fldErrs[vErr.Field()] = vErr.Translate(deps.Translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if err.Fields != nil {
				fldErrs := make(map[string]string)
				for _, fErr := range err.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = err.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			deps.Logger.Error(err.Error(), err)
			if core.IsShutdown(err) {
				shutdown()
			}
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
		}

		if c.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead { // Issue #608
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, message)
			}
			if err != nil {
				c.Echo().Logger.Error(err)
			}
		}
	}
}
