package models

import "time"

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Location    string    `gorm:"not null" json:"location"`
	ScheduledAt time.Time `gorm:"not null;index" json:"scheduled_at"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	OrganizerID uint      `gorm:"not null;index" json:"organizer_id"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

// Availability is the derived capacity view of an event. It is recomputed
// from the registrations table on every read, never cached.
type Availability struct {
	EventID         uint
	Capacity        int
	ConfirmedCount  int64
	WaitlistedCount int64
	AvailableSlots  int
	IsFull          bool
}
