package models

import "time"

type RegistrationStatus string

const (
	StatusConfirmed  RegistrationStatus = "confirmed"
	StatusWaitlisted RegistrationStatus = "waitlisted"
	StatusCancelled  RegistrationStatus = "cancelled"
)

type Registration struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	EventID   uint               `gorm:"not null;index" json:"event_id"`
	UserID    uint               `gorm:"not null" json:"user_id"`
	Status    RegistrationStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
