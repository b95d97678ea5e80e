// Package service holds the booking and admin reporting logic.  It talks to
// persistence and messaging only through the small interfaces below so the
// HTTP layer and tests can swap implementations.
package service

import (
	"context"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/queue"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
)

// ReservationStore is implemented by repository.ReservationRepo.  Create
// must return repository.ErrSeatTaken when the seat already has a
// reservation, even if the caller's availability check missed it.
type ReservationStore interface {
	ListSeats(ctx context.Context) ([]seating.Seat, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	Create(ctx context.Context, res *model.Reservation) error
	GetByTicket(ctx context.Context, ticket string) (model.Reservation, error)
}

// AdminStore is implemented by repository.AdminRepo.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
}

// EventPublisher is implemented by queue.Publisher.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}
