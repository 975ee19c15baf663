package repository

import (
	"context"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error
	FindActiveByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*models.Registration, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, eventID uint, status models.RegistrationStatus) (int64, error)
	ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, regID uint, status models.RegistrationStatus) error
	FindFirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (*models.Registration, error)
	FindByEvent(ctx context.Context, eventID uint, status *models.RegistrationStatus) ([]models.Registration, error)
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	GetDB() *gorm.DB
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) GetDB() *gorm.DB {
	return r.db
}

// InTransaction runs fn inside a database transaction; fn receives the
// transaction handle to pass into the other repository methods.
func (r *registrationRepository) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *registrationRepository) Create(ctx context.Context, tx *gorm.DB, reg *models.Registration) error {
	return tx.WithContext(ctx).Create(reg).Error
}

// FindActiveByEventAndUser returns the user's confirmed or waitlisted
// registration for the event, if any. Cancelled rows are history and ignored.
func (r *registrationRepository) FindActiveByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uint) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, models.StatusCancelled).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) CountByStatus(ctx context.Context, tx *gorm.DB, eventID uint, status models.RegistrationStatus) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

// ConfirmedCounts returns confirmed-registration counts for a batch of events
// in one query. Events with no confirmed registrations are absent from the map.
func (r *registrationRepository) ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uint
		N       int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Select("event_id, COUNT(*) AS n").
		Where("event_id IN ? AND status = ?", eventIDs, models.StatusConfirmed).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.N
	}
	return counts, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, regID uint, status models.RegistrationStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", regID).
		Update("status", status).Error
}

// FindFirstWaitlisted returns the earliest-created waitlisted registration for
// promotion, ties broken by id.
func (r *registrationRepository) FindFirstWaitlisted(ctx context.Context, tx *gorm.DB, eventID uint) (*models.Registration, error) {
	var reg models.Registration
	err := tx.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, models.StatusWaitlisted).
		Order("created_at ASC, id ASC").
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) FindByEvent(ctx context.Context, eventID uint, status *models.RegistrationStatus) ([]models.Registration, error) {
	var regs []models.Registration
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Preload("User").Order("created_at ASC, id ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}
