package handler

// response.go defines the envelope every endpoint answers with. Only the
// HTTP status code and the messages vary between outcomes; the shape stays
// the same so clients can always decode the same structure.

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ActionResult is the uniform response envelope: status reports whether the
// operation succeeded, messages carries failure details, data the optional
// payload of successful reads.
type ActionResult struct {
	Status   bool     `json:"status"`
	Messages []string `json:"messages,omitempty"`
	Data     any      `json:"data,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, ActionResult{Status: true, Data: data})
}

func fail(c echo.Context, code int, messages ...string) error {
	return c.JSON(code, ActionResult{Status: false, Messages: messages})
}

// HTTPErrorHandler maps anything the handlers did not deal with themselves
// into the envelope. Echo's own errors (404 route miss, 405) keep their
// code; everything else is a 500 with the error's message, matching the
// unhandled-error contract of the API.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, okh := err.(*echo.HTTPError); okh {
		code = he.Code
		if s, oks := he.Message.(string); oks {
			msg = s
		}
	}
	if err := fail(c, code, msg); err != nil {
		c.Logger().Error(err)
	}
}
