package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// respondError writes the inline error shape the dashboard UI renders
// next to the control that triggered the request.
func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{jsonKeyError: message})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{jsonKeyMessage: message})
}

// handleHTTPError keeps echo.HTTPError values raised inside a handler in
// the same response shape as respondError. Anything else is masked.
func handleHTTPError(c echo.Context, err error) error {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	msg, _ := he.Message.(string)
	if msg == "" {
		msg = http.StatusText(he.Code)
	}
	return respondError(c, he.Code, msg)
}
