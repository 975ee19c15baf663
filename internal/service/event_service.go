package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/repository"
	"github.com/JohnShema/BE-Capstone-project/pkg/rabbitmq"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// EventPage is one page of events plus the confirmed counts backing their
// availability fields, keyed by event id.
type EventPage struct {
	Events []models.Event
	Counts map[uint]int64
	Total  int64
}

type EventService interface {
	Create(ctx context.Context, event *models.Event, organizerID uint) error
	Update(ctx context.Context, eventID uint, fields *models.Event, requesterID uint) (*models.Event, int64, error)
	SoftDelete(ctx context.Context, eventID, requesterID uint) error
	Get(ctx context.Context, eventID, requesterID uint) (*models.Event, int64, error)
	List(ctx context.Context, filter repository.EventFilter) (*EventPage, error)
	ListRegisteredBy(ctx context.Context, userID uint) (*EventPage, error)
	ListOrganizedBy(ctx context.Context, userID uint) (*EventPage, error)
}

type eventService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	publisher     *rabbitmq.Publisher
}

func NewEventService(events repository.EventRepository, registrations repository.RegistrationRepository, publisher *rabbitmq.Publisher) EventService {
	return &eventService{events: events, registrations: registrations, publisher: publisher}
}

// CanMutate reports whether identity may modify the event. Only the organizer
// may, regardless of any other attribute.
func CanMutate(event *models.Event, identity uint) bool {
	return event.OrganizerID == identity
}

// loadVisibleEvent fetches an event applying the soft-delete visibility rule:
// a deactivated event exists only for its organizer, everyone else gets
// ErrEventNotFound.
func loadVisibleEvent(ctx context.Context, events repository.EventRepository, eventID, requesterID uint) (*models.Event, error) {
	event, err := events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if !event.IsActive && event.OrganizerID != requesterID {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func validateEvent(event *models.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return errMissingField("title")
	}
	if strings.TrimSpace(event.Location) == "" {
		return errMissingField("location")
	}
	if event.ScheduledAt.IsZero() {
		return errMissingField("scheduled_at")
	}
	if event.Capacity < 1 {
		return errNonPositiveCapacity()
	}
	if !event.ScheduledAt.After(time.Now()) {
		return errPastDate("scheduled_at")
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, event *models.Event, organizerID uint) error {
	// The organizer is always the authenticated caller, whatever the payload said.
	event.OrganizerID = organizerID
	event.IsActive = true

	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.events.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(rabbitmq.KeyEventCreated, event)
	}
	return nil
}

func (s *eventService) Update(ctx context.Context, eventID uint, fields *models.Event, requesterID uint) (*models.Event, int64, error) {
	event, err := loadVisibleEvent(ctx, s.events, eventID, requesterID)
	if err != nil {
		return nil, 0, err
	}
	if !CanMutate(event, requesterID) {
		return nil, 0, ErrForbidden
	}

	// Full replace of the writable fields. OrganizerID and IsActive are not
	// writable here; reactivation does not exist.
	event.Title = fields.Title
	event.Description = fields.Description
	event.Location = fields.Location
	event.ScheduledAt = fields.ScheduledAt
	event.Capacity = fields.Capacity

	if err := validateEvent(event); err != nil {
		return nil, 0, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, 0, fmt.Errorf("update event: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(rabbitmq.KeyEventUpdated, event)
	}

	// Lowering capacity never demotes anyone, so the fresh count may exceed
	// the new capacity; responses clamp available slots at zero.
	confirmed, err := s.registrations.CountByStatus(ctx, s.registrations.GetDB(), eventID, models.StatusConfirmed)
	if err != nil {
		return nil, 0, fmt.Errorf("count confirmed registrations: %w", err)
	}
	return event, confirmed, nil
}

func (s *eventService) SoftDelete(ctx context.Context, eventID, requesterID uint) error {
	event, err := loadVisibleEvent(ctx, s.events, eventID, requesterID)
	if err != nil {
		return err
	}
	if !CanMutate(event, requesterID) {
		return ErrForbidden
	}
	if !event.IsActive {
		return nil // already deactivated, nothing to do
	}

	event.IsActive = false
	if err := s.events.Save(ctx, event); err != nil {
		return fmt.Errorf("deactivate event: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(rabbitmq.KeyEventCancelled, event)
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, eventID, requesterID uint) (*models.Event, int64, error) {
	event, err := loadVisibleEvent(ctx, s.events, eventID, requesterID)
	if err != nil {
		return nil, 0, err
	}
	confirmed, err := s.registrations.CountByStatus(ctx, s.registrations.GetDB(), eventID, models.StatusConfirmed)
	if err != nil {
		return nil, 0, fmt.Errorf("count confirmed registrations: %w", err)
	}
	return event, confirmed, nil
}

func (s *eventService) List(ctx context.Context, filter repository.EventFilter) (*EventPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	counts, err := s.confirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}
	return &EventPage{Events: events, Counts: counts, Total: total}, nil
}

func (s *eventService) ListRegisteredBy(ctx context.Context, userID uint) (*EventPage, error) {
	events, err := s.events.ListRegisteredBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	counts, err := s.confirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}
	return &EventPage{Events: events, Counts: counts, Total: int64(len(events))}, nil
}

func (s *eventService) ListOrganizedBy(ctx context.Context, userID uint) (*EventPage, error) {
	events, err := s.events.ListOrganizedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organized events: %w", err)
	}
	counts, err := s.confirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}
	return &EventPage{Events: events, Counts: counts, Total: int64(len(events))}, nil
}

func (s *eventService) confirmedCounts(ctx context.Context, events []models.Event) (map[uint]int64, error) {
	ids := make([]uint, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	counts, err := s.registrations.ConfirmedCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count confirmed registrations: %w", err)
	}
	return counts, nil
}
