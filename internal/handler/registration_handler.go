package handler

import (
	"net/http"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/JohnShema/BE-Capstone-project/internal/middleware"
	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/service"
	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	events := e.Group("/api/v1/events", requireAuth)
	events.POST("/:id/register", h.Register)
	events.DELETE("/:id/register", h.Unregister)
	events.GET("/:id/availability", h.GetAvailability)
	events.GET("/:id/registrations", h.ListRegistrations)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	registration, err := h.svc.Register(c.Request().Context(), eventID, middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}

	// A waitlisted registration is accepted but holds no seat yet
	status := http.StatusCreated
	if registration.Status == models.StatusWaitlisted {
		status = http.StatusAccepted
	}
	return c.JSON(status, dto.ToRegistrationResponse(registration))
}

func (h *RegistrationHandler) Unregister(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	cancelled, err := h.svc.Unregister(c.Request().Context(), eventID, middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(cancelled))
}

func (h *RegistrationHandler) GetAvailability(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	availability, err := h.svc.Availability(c.Request().Context(), eventID, middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAvailabilityResponse(availability))
}

func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	var status *models.RegistrationStatus
	if s := c.QueryParam("status"); s != "" {
		rs := models.RegistrationStatus(s)
		switch rs {
		case models.StatusConfirmed, models.StatusWaitlisted, models.StatusCancelled:
			status = &rs
		default:
			return httpError(http.StatusBadRequest, "invalid_field", "status must be confirmed, waitlisted or cancelled")
		}
	}

	registrations, err := h.svc.ListByEvent(c.Request().Context(), eventID, middleware.UserID(c), status)
	if err != nil {
		return mapServiceError(err)
	}

	resp := make([]dto.RegistrationResponse, len(registrations))
	for i, r := range registrations {
		resp[i] = dto.ToRegistrationResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}
