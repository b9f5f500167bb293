package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler renders HttpErrors with their own status code. Failures of the
// remote profile service are reported as 503 so clients can retry with the cached state.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	e := HttpError{}
	if !errors.As(err, &e) {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}

	code := e.Code
	if code == http.StatusBadGateway || code == http.StatusGatewayTimeout {
		code = http.StatusServiceUnavailable
	}
	c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(code, err.Error()), c)
}
