package repository

import (
	"context"
	"time"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventFilter narrows event listings. Zero values mean "no filter".
type EventFilter struct {
	UpcomingOnly bool
	Organizer    string // organizer username, exact match
	Search       string // case-insensitive substring of title or location
	Page         int
	PageSize     int
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)
	ListRegisteredBy(ctx context.Context, userID uint) ([]models.Event, error)
	ListOrganizedBy(ctx context.Context, userID uint) ([]models.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Save writes back every field of an already-persisted event. The preloaded
// Organizer association is skipped, only the events row is touched.
func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Preload("Organizer").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate acquires a row-level lock on the event within the given
// transaction. Concurrent registration attempts for the same event serialize
// here; different events stay independent.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Event{}).Where("events.is_active = ?", true)

	if filter.UpcomingOnly {
		q = q.Where("events.scheduled_at >= ?", time.Now())
	}
	if filter.Organizer != "" {
		q = q.Joins("JOIN users ON users.id = events.organizer_id").
			Where("users.username = ?", filter.Organizer)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("events.title ILIKE ? OR events.location ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := q.Preload("Organizer").
		Order("events.scheduled_at ASC, events.id ASC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListRegisteredBy returns active events for which the user holds a
// non-cancelled registration, soonest first.
func (r *eventRepository) ListRegisteredBy(ctx context.Context, userID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Joins("JOIN registrations ON registrations.event_id = events.id").
		Where("registrations.user_id = ? AND registrations.status <> ?", userID, models.StatusCancelled).
		Where("events.is_active = ?", true).
		Preload("Organizer").
		Order("events.scheduled_at ASC, events.id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListOrganizedBy returns every event the user organizes, including
// soft-deleted ones. The organizer keeps a window onto their history.
func (r *eventRepository) ListOrganizedBy(ctx context.Context, userID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", userID).
		Preload("Organizer").
		Order("scheduled_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
