package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/JohnShema/BE-Capstone-project/internal/service"
	"github.com/JohnShema/BE-Capstone-project/pkg/token"
	"github.com/labstack/echo/v4"
)

func httpError(status int, code, message string) error {
	return echo.NewHTTPError(status, dto.ErrorResponse{Code: code, Message: message})
}

// pathID parses the :id route segment.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, httpError(http.StatusBadRequest, "invalid_field", "invalid event id")
	}
	return uint(id), nil
}

// mapServiceError translates service failures into the HTTP error envelope.
// Anything unlisted falls through to the global handler as a 500.
func mapServiceError(err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return httpError(http.StatusBadRequest, ve.Code, ve.Error())
	case errors.Is(err, service.ErrEventNotFound):
		return httpError(http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrNotRegistered):
		return httpError(http.StatusNotFound, "not_registered", err.Error())
	case errors.Is(err, service.ErrEventInactive):
		return httpError(http.StatusBadRequest, "event_inactive", err.Error())
	case errors.Is(err, service.ErrEventPast):
		return httpError(http.StatusBadRequest, "event_past", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return httpError(http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrAlreadyRegistered):
		return httpError(http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, service.ErrConflict):
		return httpError(http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		return httpError(http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return httpError(http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return httpError(http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, token.ErrInvalidToken):
		return httpError(http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		return err
	}
}
