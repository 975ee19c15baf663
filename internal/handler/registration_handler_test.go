package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock RegistrationService ---

type mockRegistrationService struct {
	registerFn     func(ctx context.Context, eventID, userID uint) (*models.Registration, error)
	unregisterFn   func(ctx context.Context, eventID, userID uint) (*models.Registration, error)
	availabilityFn func(ctx context.Context, eventID, requesterID uint) (*models.Availability, error)
	listByEventFn  func(ctx context.Context, eventID, requesterID uint, status *models.RegistrationStatus) ([]models.Registration, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
	return m.registerFn(ctx, eventID, userID)
}
func (m *mockRegistrationService) Unregister(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
	return m.unregisterFn(ctx, eventID, userID)
}
func (m *mockRegistrationService) Availability(ctx context.Context, eventID, requesterID uint) (*models.Availability, error) {
	return m.availabilityFn(ctx, eventID, requesterID)
}
func (m *mockRegistrationService) ListByEvent(ctx context.Context, eventID, requesterID uint, status *models.RegistrationStatus) ([]models.Registration, error) {
	return m.listByEventFn(ctx, eventID, requesterID, status)
}

// --- Tests ---

func TestRegister_Handler_Confirmed(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return &models.Registration{
				ID:        1,
				EventID:   eventID,
				UserID:    userID,
				Status:    models.StatusConfirmed,
				CreatedAt: time.Now(),
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusConfirmed, resp.Status)
	assert.Equal(t, uint(7), resp.UserID)
}

func TestRegister_Handler_Waitlisted(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return &models.Registration{
				ID:      2,
				EventID: eventID,
				UserID:  userID,
				Status:  models.StatusWaitlisted,
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 51)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, rec.Code, "waitlisted holds no seat, so not 201")

	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusWaitlisted, resp.Status)
}

func TestRegister_Handler_AlreadyRegistered(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return nil, service.ErrAlreadyRegistered
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	code, body := errorBody(t, err)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_registered", body.Code)
}

func TestRegister_Handler_EventInactive(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return nil, service.ErrEventInactive
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	code, body := errorBody(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "event_inactive", body.Code)
}

func TestRegister_Handler_EventPast(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return nil, service.ErrEventPast
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	code, body := errorBody(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "event_past", body.Code)
}

func TestRegister_Handler_Conflict(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return nil, service.ErrConflict
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	code, body := errorBody(t, err)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", body.Code)
}

func TestRegister_Handler_InvalidEventID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/abc/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := NewRegistrationHandler(&mockRegistrationService{})
	err := h.Register(c)

	code, _ := errorBody(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnregister_Handler_Success(t *testing.T) {
	svc := &mockRegistrationService{
		unregisterFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return &models.Registration{
				ID:      5,
				EventID: eventID,
				UserID:  userID,
				Status:  models.StatusCancelled,
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Unregister(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCancelled, resp.Status)
}

func TestUnregister_Handler_NotRegistered(t *testing.T) {
	svc := &mockRegistrationService{
		unregisterFn: func(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
			return nil, service.ErrNotRegistered
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/1/register", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.Unregister(c)

	code, body := errorBody(t, err)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_registered", body.Code)
}

func TestGetAvailability_Handler_Success(t *testing.T) {
	svc := &mockRegistrationService{
		availabilityFn: func(ctx context.Context, eventID, requesterID uint) (*models.Availability, error) {
			return &models.Availability{
				EventID:         eventID,
				Capacity:        50,
				ConfirmedCount:  47,
				WaitlistedCount: 3,
				AvailableSlots:  3,
				IsFull:          false,
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/1/availability", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 7)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.GetAvailability(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(47), resp.ConfirmedCount)
	assert.Equal(t, 3, resp.AvailableSlots)
}

func TestListRegistrations_Handler_StatusFilter(t *testing.T) {
	var captured *models.RegistrationStatus
	svc := &mockRegistrationService{
		listByEventFn: func(ctx context.Context, eventID, requesterID uint, status *models.RegistrationStatus) ([]models.Registration, error) {
			captured = status
			return []models.Registration{
				{ID: 1, EventID: eventID, UserID: 7, Status: models.StatusWaitlisted},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/1/registrations?status=waitlisted", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 42)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(svc)
	err := h.ListRegistrations(c)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, models.StatusWaitlisted, *captured)

	var resp []dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestListRegistrations_Handler_InvalidStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/1/registrations?status=pending", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 42)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewRegistrationHandler(&mockRegistrationService{})
	err := h.ListRegistrations(c)

	code, body := errorBody(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_field", body.Code)
}
