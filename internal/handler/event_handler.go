package handler

import (
	"net/http"
	"strconv"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/JohnShema/BE-Capstone-project/internal/middleware"
	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/repository"
	"github.com/JohnShema/BE-Capstone-project/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	events := e.Group("/api/v1/events", requireAuth)
	events.GET("", h.ListEvents)
	events.POST("", h.CreateEvent)
	events.GET("/:id", h.GetEvent)
	events.PUT("/:id", h.UpdateEvent)
	events.DELETE("/:id", h.DeleteEvent)

	me := e.Group("/api/v1/users/me/events", requireAuth)
	me.GET("/registered", h.ListRegisteredEvents)
	me.GET("/organized", h.ListOrganizedEvents)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return httpError(http.StatusBadRequest, "invalid_body", "invalid request body")
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ScheduledAt: req.ScheduledAt,
		Capacity:    req.Capacity,
	}
	if err := h.svc.Create(c.Request().Context(), event, middleware.UserID(c)); err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event, 0))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	event, confirmed, err := h.svc.Get(c.Request().Context(), eventID, middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event, confirmed))
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return httpError(http.StatusBadRequest, "invalid_body", "invalid request body")
	}

	fields := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ScheduledAt: req.ScheduledAt,
		Capacity:    req.Capacity,
	}
	event, confirmed, err := h.svc.Update(c.Request().Context(), eventID, fields, middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event, confirmed))
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	eventID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.svc.SoftDelete(c.Request().Context(), eventID, middleware.UserID(c)); err != nil {
		return mapServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	filter := repository.EventFilter{
		UpcomingOnly: c.QueryParam("upcoming") == "true",
		Organizer:    c.QueryParam("organizer"),
		Search:       c.QueryParam("search"),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = service.DefaultPageSize
	}
	if filter.PageSize > service.MaxPageSize {
		filter.PageSize = service.MaxPageSize
	}

	page, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.EventListResponse{
		Count:    page.Total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Results:  eventResults(page),
	})
}

func (h *EventHandler) ListRegisteredEvents(c echo.Context) error {
	page, err := h.svc.ListRegisteredBy(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, eventResults(page))
}

func (h *EventHandler) ListOrganizedEvents(c echo.Context) error {
	page, err := h.svc.ListOrganizedBy(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, eventResults(page))
}

func eventResults(page *service.EventPage) []dto.EventResponse {
	results := make([]dto.EventResponse, len(page.Events))
	for i, e := range page.Events {
		results[i] = dto.ToEventResponse(&e, page.Counts[e.ID])
	}
	return results
}
