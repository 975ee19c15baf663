package middleware

import (
	"net/http"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as the dto.ErrorResponse envelope.
// Unexpected errors become a bare 500 so internals never reach clients.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := dto.ErrorResponse{Message: "internal server error"}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case dto.ErrorResponse:
			body = m
		case string:
			body = dto.ErrorResponse{Message: m}
		default:
			body = dto.ErrorResponse{Message: http.StatusText(code)}
		}
	}

	_ = c.JSON(code, body)
}
