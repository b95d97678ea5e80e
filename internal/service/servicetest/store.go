// Package servicetest provides in-memory stores and a recording publisher
// for tests of the service and handler packages.
package servicetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/queue"
	"github.com/iliyamo/flight-seat-reservation/internal/repository"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
	"github.com/iliyamo/flight-seat-reservation/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// ReservationStore keeps reservations in memory and enforces one
// reservation per seat the way the MySQL unique index does.
type ReservationStore struct {
	mu     sync.Mutex
	rows   []model.Reservation
	nextID uint64

	// Err, when set, is returned by every method.
	Err error
	// BeforeCreate runs inside Create before the uniqueness check; tests
	// use it to slip in a competing booking.
	BeforeCreate func()
}

func NewReservationStore(rows ...model.Reservation) *ReservationStore {
	s := &ReservationStore{}
	for _, r := range rows {
		s.nextID++
		r.ID = s.nextID
		s.rows = append(s.rows, r)
	}
	return s
}

func (s *ReservationStore) ListSeats(ctx context.Context) ([]seating.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]seating.Seat, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, seating.Seat{Row: r.SeatRow, Col: r.SeatColumn})
	}
	return out, nil
}

func (s *ReservationStore) ListAll(ctx context.Context) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.Reservation(nil), s.rows...), nil
}

func (s *ReservationStore) Create(ctx context.Context, res *model.Reservation) error {
	if s.BeforeCreate != nil {
		s.BeforeCreate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, r := range s.rows {
		if r.SeatRow == res.SeatRow && r.SeatColumn == res.SeatColumn {
			return repository.ErrSeatTaken
		}
	}
	s.nextID++
	res.ID = s.nextID
	res.CreatedAt = time.Now().UTC()
	s.rows = append(s.rows, *res)
	return nil
}

func (s *ReservationStore) GetByTicket(ctx context.Context, ticket string) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.Reservation{}, s.Err
	}
	for _, r := range s.rows {
		if r.ETicketNumber == ticket {
			return r, nil
		}
	}
	return model.Reservation{}, repository.ErrReservationNotFound
}

// Insert adds a reservation directly, bypassing any service checks.
func (s *ReservationStore) Insert(r model.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.rows = append(s.rows, r)
}

// Len returns the number of stored reservations.
func (s *ReservationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// AdminStore holds admin accounts keyed by username.
type AdminStore struct {
	admins map[string]model.Admin
	Err    error
}

func NewAdminStore() *AdminStore { return &AdminStore{admins: map[string]model.Admin{}} }

// Add stores an admin with a low-cost bcrypt hash of password.
func (s *AdminStore) Add(username, password string) {
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.admins[username] = model.Admin{ID: uint64(len(s.admins) + 1), Username: username, PasswordHash: hash}
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	if s.Err != nil {
		return model.Admin{}, s.Err
	}
	a, ok := s.admins[username]
	if !ok {
		return model.Admin{}, repository.ErrAdminNotFound
	}
	return a, nil
}

// ErrBrokerDown is a convenient failure for Publisher.Err.
var ErrBrokerDown = errors.New("broker down")

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	Err    error
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (p *Publisher) Events() []queue.BookingConfirmedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.BookingConfirmedEvent(nil), p.events...)
}
