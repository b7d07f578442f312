package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

// ErrSlotTaken is returned when the (domain, date, slot) tuple is already booked
var ErrSlotTaken = errors.New("slot already booked")

type BookingRepo interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByDomain(ctx context.Context, domainID uuid.UUID) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error)
	BookedSlots(ctx context.Context, domainID uuid.UUID, date time.Time) ([]string, error)
	ScheduleForDay(ctx context.Context, domainID uuid.UUID, dayOfWeek int) (*models.AvailabilitySchedule, error)
	UpsertSchedule(ctx context.Context, schedule *models.AvailabilitySchedule) error
}

type bookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) BookingRepo {
	return &bookingRepo{db: db}
}

// Create inserts the booking inside a transaction that re-checks the slot.
// The unique index on (domain_id, date, slot) is the backstop for two
// concurrent creates racing past the check.
func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Booking{}).
			Where("domain_id = ? AND date = ? AND slot = ?", booking.DomainID, booking.Date, booking.Slot).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create booking: %w", translate(err))
	}
	return nil
}

func (r *bookingRepo) ListByDomain(ctx context.Context, domainID uuid.UUID) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("date ASC, slot ASC").
		Find(&bookings).Error
	return bookings, translate(err)
}

func (r *bookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date ASC, slot ASC").
		Find(&bookings).Error
	return bookings, translate(err)
}

func (r *bookingRepo) BookedSlots(ctx context.Context, domainID uuid.UUID, date time.Time) ([]string, error) {
	slots := []string{}
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("domain_id = ? AND date = ?", domainID, date).
		Pluck("slot", &slots).Error
	return slots, translate(err)
}

// UpsertSchedule replaces the slot list for one weekday. An existing row
// keeps its ID; there is at most one schedule per (domain, weekday).
func (r *bookingRepo) UpsertSchedule(ctx context.Context, schedule *models.AvailabilitySchedule) error {
	var existing models.AvailabilitySchedule
	err := r.db.WithContext(ctx).
		Where("domain_id = ? AND day_of_week = ?", schedule.DomainID, schedule.DayOfWeek).
		First(&existing).Error
	if err == nil {
		schedule.ID = existing.ID
		return translate(r.db.WithContext(ctx).Save(schedule).Error)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Create(schedule).Error)
}

func (r *bookingRepo) ScheduleForDay(ctx context.Context, domainID uuid.UUID, dayOfWeek int) (*models.AvailabilitySchedule, error) {
	var schedule models.AvailabilitySchedule
	err := r.db.WithContext(ctx).
		Where("domain_id = ? AND day_of_week = ? AND active = ?", domainID, dayOfWeek, true).
		First(&schedule).Error
	if err != nil {
		return nil, translate(err)
	}
	return &schedule, nil
}
