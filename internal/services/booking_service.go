package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
)

// ErrSlotUnavailable means the requested slot is not offered for that
// weekday or already taken.
var ErrSlotUnavailable = errors.New("slot unavailable")

// BookingService turns a domain's weekly availability schedule plus its
// existing bookings into offerable slots, and creates bookings safely.
type BookingService struct {
	bookings repositories.BookingRepo
}

func NewBookingService(bookings repositories.BookingRepo) *BookingService {
	return &BookingService{bookings: bookings}
}

// AvailableSlots returns the schedule slots for the date's weekday minus
// the slots already booked. An inactive or missing schedule means no
// availability, not an error.
func (s *BookingService) AvailableSlots(ctx context.Context, domainID uuid.UUID, date time.Time) ([]string, error) {
	schedule, err := s.bookings.ScheduleForDay(ctx, domainID, int(date.Weekday()))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	var slots []string
	if err := json.Unmarshal(schedule.Slots, &slots); err != nil {
		return nil, fmt.Errorf("decode schedule slots: %w", err)
	}

	booked, err := s.bookings.BookedSlots(ctx, domainID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := []string{}
	for _, slot := range slots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Create books a slot for a customer. The slot must be on the day's
// schedule; the repository's transactional check plus the unique index
// close the double-booking race.
func (s *BookingService) Create(ctx context.Context, domainID, customerID uuid.UUID, date time.Time, slot string, answers map[string]string) (*models.Booking, error) {
	available, err := s.AvailableSlots(ctx, domainID, date)
	if err != nil {
		return nil, err
	}
	offered := false
	for _, candidate := range available {
		if candidate == slot {
			offered = true
			break
		}
	}
	if !offered {
		return nil, ErrSlotUnavailable
	}

	booking := &models.Booking{
		DomainID:   domainID,
		CustomerID: customerID,
		Date:       date,
		Slot:       slot,
	}
	if len(answers) > 0 {
		metadata, err := json.Marshal(answers)
		if err != nil {
			return nil, fmt.Errorf("encode booking answers: %w", err)
		}
		booking.Metadata = metadata
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repositories.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	return booking, nil
}

// ListForDomain returns all of a domain's bookings
func (s *BookingService) ListForDomain(ctx context.Context, domainID uuid.UUID) ([]models.Booking, error) {
	return s.bookings.ListByDomain(ctx, domainID)
}

// ListForCustomer returns a customer's bookings
func (s *BookingService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}
