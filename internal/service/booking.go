package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jask/tradesnipper/internal/database"
	"github.com/jask/tradesnipper/internal/database/repository"
	"github.com/jask/tradesnipper/internal/trade"
)

// BookingStore records bookings.
type BookingStore interface {
	Insert(ctx context.Context, b repository.Booking) error
	List(ctx context.Context, limit int) ([]repository.Booking, error)
}

// BookingService simulates handing a trade to the booking system. Nothing
// leaves the machine; the trade is logged locally after a short delay.
type BookingService struct {
	Repo   BookingStore
	Target string
	Delay  time.Duration
}

// ConfirmPrompt is asked before sending.
func (s *BookingService) ConfirmPrompt() string {
	return fmt.Sprintf("Are you sure you want to send this trade to %s?", s.target())
}

// SuccessMessage is shown once the trade is sent.
func (s *BookingService) SuccessMessage() string {
	return "Trade successfully sent to " + s.target()
}

func (s *BookingService) target() string {
	if s.Target == "" {
		return "Murex"
	}
	return s.Target
}

// Submit waits out the simulated delay, then records the booking. A
// cancelled context aborts before anything is written.
func (s *BookingService) Submit(ctx context.Context, kind trade.Kind, t any, summary string) (repository.Booking, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return repository.Booking{}, fmt.Errorf("encode trade: %w", err)
	}
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return repository.Booking{}, ctx.Err()
		case <-timer.C:
		}
	}
	b := repository.Booking{
		ID:        uuid.NewString(),
		Kind:      string(kind),
		Target:    s.target(),
		Summary:   summary,
		TradeJSON: string(data),
		BookedAt:  database.Now(),
	}
	if err := s.Repo.Insert(ctx, b); err != nil {
		return repository.Booking{}, fmt.Errorf("record booking: %w", err)
	}
	slog.Info("trade booked", "id", b.ID, "kind", kind, "target", b.Target)
	return b, nil
}

// Recent lists bookings, newest first.
func (s *BookingService) Recent(ctx context.Context, limit int) ([]repository.Booking, error) {
	return s.Repo.List(ctx, limit)
}
