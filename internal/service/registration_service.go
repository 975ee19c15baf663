package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/repository"
	"github.com/JohnShema/BE-Capstone-project/pkg/rabbitmq"
	"gorm.io/gorm"
)

// maxTxAttempts bounds how often a registration transaction is retried after
// Postgres aborts it with a serialization or deadlock failure.
const maxTxAttempts = 3

type RegistrationService interface {
	Register(ctx context.Context, eventID, userID uint) (*models.Registration, error)
	Unregister(ctx context.Context, eventID, userID uint) (*models.Registration, error)
	Availability(ctx context.Context, eventID, requesterID uint) (*models.Availability, error)
	ListByEvent(ctx context.Context, eventID, requesterID uint, status *models.RegistrationStatus) ([]models.Registration, error)
}

type registrationService struct {
	registrations repository.RegistrationRepository
	events        repository.EventRepository
	publisher     *rabbitmq.Publisher
}

func NewRegistrationService(registrations repository.RegistrationRepository, events repository.EventRepository, publisher *rabbitmq.Publisher) RegistrationService {
	return &registrationService{
		registrations: registrations,
		events:        events,
		publisher:     publisher,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
	var result *models.Registration

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		// 1. Lock the event row; serializes concurrent registration attempts
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		// 2. Deactivated or already-started events take no new registrations
		if !event.IsActive {
			return ErrEventInactive
		}
		if !event.ScheduledAt.After(time.Now()) {
			return ErrEventPast
		}

		// 3. Check double-registration
		_, err = s.registrations.FindActiveByEventAndUser(ctx, tx, eventID, userID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 4. Count confirmed seats to decide the status
		confirmed, err := s.registrations.CountByStatus(ctx, tx, eventID, models.StatusConfirmed)
		if err != nil {
			return err
		}

		status := models.StatusWaitlisted
		if confirmed < int64(event.Capacity) {
			status = models.StatusConfirmed
		}

		// 5. Insert; the partial unique index backstops the check in step 3
		registration := &models.Registration{
			EventID: eventID,
			UserID:  userID,
			Status:  status,
		}
		if err := s.registrations.Create(ctx, tx, registration); err != nil {
			if isUniqueViolation(err, uniqueActiveRegistration) {
				return ErrAlreadyRegistered
			}
			return err
		}

		result = registration
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(statusRoutingKey(result.Status), result)
	return result, nil
}

func (s *registrationService) Unregister(ctx context.Context, eventID, userID uint) (*models.Registration, error) {
	var cancelled, promoted *models.Registration

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		cancelled, promoted = nil, nil

		// 1. Lock the event row so cancellation and promotion are one unit
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		// 2. Find the caller's active registration
		registration, err := s.registrations.FindActiveByEventAndUser(ctx, tx, eventID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotRegistered
			}
			return err
		}
		wasConfirmed := registration.Status == models.StatusConfirmed

		// 3. Cancel it
		if err := s.registrations.UpdateStatus(ctx, tx, registration.ID, models.StatusCancelled); err != nil {
			return err
		}
		registration.Status = models.StatusCancelled
		cancelled = registration

		// 4. Promote the longest-waiting entry, but only while the confirmed
		//    count sits below capacity. After a capacity cut the excess drains
		//    through cancellations before anyone new is confirmed.
		if !wasConfirmed {
			return nil
		}
		confirmed, err := s.registrations.CountByStatus(ctx, tx, eventID, models.StatusConfirmed)
		if err != nil {
			return err
		}
		if confirmed >= int64(event.Capacity) {
			return nil
		}
		next, err := s.registrations.FindFirstWaitlisted(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // nobody waiting
			}
			return err
		}
		if err := s.registrations.UpdateStatus(ctx, tx, next.ID, models.StatusConfirmed); err != nil {
			return err
		}
		next.Status = models.StatusConfirmed
		promoted = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(rabbitmq.KeyRegistrationCancelled, cancelled)
	s.publish(rabbitmq.KeyRegistrationPromoted, promoted)
	return cancelled, nil
}

func (s *registrationService) Availability(ctx context.Context, eventID, requesterID uint) (*models.Availability, error) {
	event, err := loadVisibleEvent(ctx, s.events, eventID, requesterID)
	if err != nil {
		return nil, err
	}

	db := s.registrations.GetDB()
	confirmed, err := s.registrations.CountByStatus(ctx, db, eventID, models.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed registrations: %w", err)
	}
	waitlisted, err := s.registrations.CountByStatus(ctx, db, eventID, models.StatusWaitlisted)
	if err != nil {
		return nil, fmt.Errorf("count waitlisted registrations: %w", err)
	}

	available := event.Capacity - int(confirmed)
	if available < 0 {
		available = 0 // capacity may have been lowered below the confirmed count
	}
	return &models.Availability{
		EventID:         event.ID,
		Capacity:        event.Capacity,
		ConfirmedCount:  confirmed,
		WaitlistedCount: waitlisted,
		AvailableSlots:  available,
		IsFull:          available == 0,
	}, nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID, requesterID uint, status *models.RegistrationStatus) ([]models.Registration, error) {
	if _, err := loadVisibleEvent(ctx, s.events, eventID, requesterID); err != nil {
		return nil, err
	}
	registrations, err := s.registrations.FindByEvent(ctx, eventID, status)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return registrations, nil
}

// inTx runs fn in one transaction, retrying when Postgres reports a
// serialization or deadlock failure. Callers must reset their captured state
// at the top of fn because a retried fn runs from scratch.
func (s *registrationService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.registrations.InTransaction(ctx, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return ErrConflict
}

// publish emits to the lifecycle exchange after the transaction has committed.
// A nil registration or absent broker is a no-op.
func (s *registrationService) publish(key string, registration *models.Registration) {
	if s.publisher == nil || registration == nil {
		return
	}
	_ = s.publisher.Publish(key, registration)
}

func statusRoutingKey(status models.RegistrationStatus) string {
	if status == models.StatusConfirmed {
		return rabbitmq.KeyRegistrationConfirmed
	}
	return rabbitmq.KeyRegistrationWaitlisted
}
