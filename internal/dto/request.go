package dto

import "time"

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh"`
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Capacity    int       `json:"capacity"`
}

// UpdateEventRequest carries a full replacement of the mutable event fields.
// Organizer and is_active are never writable through an update.
type UpdateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Capacity    int       `json:"capacity"`
}
