package dto

import (
	"time"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
)

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type TokenResponse struct {
	AccessToken  string        `json:"access"`
	RefreshToken string        `json:"refresh,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
}

type EventResponse struct {
	ID             uint          `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Location       string        `json:"location"`
	ScheduledAt    time.Time     `json:"scheduled_at"`
	Capacity       int           `json:"capacity"`
	Organizer      *UserResponse `json:"organizer,omitempty"`
	IsActive       bool          `json:"is_active"`
	ConfirmedCount int64         `json:"confirmed_count"`
	AvailableSlots int           `json:"available_slots"`
	IsFull         bool          `json:"is_full"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type EventListResponse struct {
	Count    int64           `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Results  []EventResponse `json:"results"`
}

type RegistrationResponse struct {
	ID        uint                      `json:"id"`
	EventID   uint                      `json:"event_id"`
	UserID    uint                      `json:"user_id"`
	Status    models.RegistrationStatus `json:"status"`
	User      *UserResponse             `json:"user,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

type AvailabilityResponse struct {
	EventID         uint  `json:"event_id"`
	Capacity        int   `json:"capacity"`
	ConfirmedCount  int64 `json:"confirmed_count"`
	WaitlistedCount int64 `json:"waitlisted_count"`
	AvailableSlots  int   `json:"available_slots"`
	IsFull          bool  `json:"is_full"`
}

type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// ToEventResponse maps an event plus its confirmed-registration count into the
// wire shape. available_slots is clamped at zero so a capacity lowered below
// the confirmed count never reads negative.
func ToEventResponse(e *models.Event, confirmed int64) EventResponse {
	available := e.Capacity - int(confirmed)
	if available < 0 {
		available = 0
	}
	resp := EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Location:       e.Location,
		ScheduledAt:    e.ScheduledAt,
		Capacity:       e.Capacity,
		IsActive:       e.IsActive,
		ConfirmedCount: confirmed,
		AvailableSlots: available,
		IsFull:         available == 0,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.Organizer != nil {
		organizer := ToUserResponse(e.Organizer)
		resp.Organizer = &organizer
	}
	return resp
}

func ToRegistrationResponse(r *models.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		UserID:    r.UserID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		user := ToUserResponse(r.User)
		resp.User = &user
	}
	return resp
}

func ToAvailabilityResponse(a *models.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		EventID:         a.EventID,
		Capacity:        a.Capacity,
		ConfirmedCount:  a.ConfirmedCount,
		WaitlistedCount: a.WaitlistedCount,
		AvailableSlots:  a.AvailableSlots,
		IsFull:          a.IsFull,
	}
}
