package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/queue"
	"github.com/iliyamo/flight-seat-reservation/internal/repository"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
	"github.com/iliyamo/flight-seat-reservation/internal/ticket"
)

// SeatTakenMessage is shown to passengers who pick an occupied seat.
const SeatTakenMessage = "Seat already taken. Please choose a different seat."

var (
	// ErrSeatTaken is returned by Book when the seat already has a
	// reservation.  Nothing is written in that case.
	ErrSeatTaken = errors.New("seat already taken")
	// ErrInvalidPassenger is returned when both name parts are blank.
	ErrInvalidPassenger = errors.New("passenger name required")
)

const publishTimeout = 5 * time.Second

// BookingRequest is one passenger's attempt to reserve a seat.  Seat
// coordinates are 0-indexed.
type BookingRequest struct {
	FirstName  string
	LastName   string
	SeatRow    int
	SeatColumn int
}

// Booking describes a stored reservation.
type Booking struct {
	ReservationID uint64
	PassengerName string
	SeatRow       int // 0-indexed
	SeatColumn    int // 0-indexed
	ETicketNumber string
	Price         int
}

// Message is the confirmation shown to the passenger, with the seat
// reported 1-indexed.
func (b Booking) Message() string {
	return fmt.Sprintf("Reservation successful! You have booked Seat Row %d, Column %d. Your eTicket number is %s.",
		b.SeatRow+1, b.SeatColumn+1, b.ETicketNumber)
}

// ReservationService books seats on the flight.
type ReservationService struct {
	store      ReservationStore
	publisher  EventPublisher // nil disables booking events
	flightCode string

	wg sync.WaitGroup // in-flight event publishes
}

// NewReservationService wires the service.  publisher may be nil.
func NewReservationService(store ReservationStore, publisher EventPublisher, flightCode string) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{store: store, publisher: publisher, flightCode: flightCode}
}

// FlightCode returns the code mixed into e-ticket numbers.
func (s *ReservationService) FlightCode() string { return s.flightCode }

// Chart builds the current occupancy chart from the store.
func (s *ReservationService) Chart(ctx context.Context) (seating.Chart, error) {
	seats, err := s.store.ListSeats(ctx)
	if err != nil {
		return seating.Chart{}, fmt.Errorf("list seats: %w", err)
	}
	return seating.Build(seats)
}

// Book reserves the requested seat.  It fails with ErrSeatTaken when the
// seat is occupied, whether that is seen by the chart check or reported by
// the store's unique index after a concurrent booking won the race.
func (s *ReservationService) Book(ctx context.Context, req BookingRequest) (Booking, error) {
	seat := seating.Seat{Row: req.SeatRow, Col: req.SeatColumn}
	if err := seat.Validate(); err != nil {
		return Booking{}, err
	}
	first, last := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if first == "" && last == "" {
		return Booking{}, ErrInvalidPassenger
	}

	chart, err := s.Chart(ctx)
	if err != nil {
		return Booking{}, err
	}
	if chart.IsOccupied(seat) {
		return Booking{}, ErrSeatTaken
	}

	price, err := seating.Price(seat.Col)
	if err != nil {
		return Booking{}, err
	}
	name := first + " " + last
	res := &model.Reservation{
		PassengerName: name,
		SeatRow:       seat.Row,
		SeatColumn:    seat.Col,
		ETicketNumber: ticket.Generate(name, s.flightCode),
	}
	if err := s.store.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return Booking{}, ErrSeatTaken
		}
		return Booking{}, fmt.Errorf("create reservation: %w", err)
	}

	b := Booking{
		ReservationID: res.ID,
		PassengerName: res.PassengerName,
		SeatRow:       res.SeatRow,
		SeatColumn:    res.SeatColumn,
		ETicketNumber: res.ETicketNumber,
		Price:         price,
	}
	s.publishConfirmed(b, res.CreatedAt)
	return b, nil
}

// Lookup returns the reservation holding the given e-ticket number.
func (s *ReservationService) Lookup(ctx context.Context, eticket string) (model.Reservation, error) {
	return s.store.GetByTicket(ctx, strings.TrimSpace(eticket))
}

// publishConfirmed sends the booking event in the background.  The booking
// is already committed, so a broker failure is only logged.
func (s *ReservationService) publishConfirmed(b Booking, at time.Time) {
	if s.publisher == nil {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}
	ev := queue.BookingConfirmedEvent{
		ReservationID: b.ReservationID,
		PassengerName: b.PassengerName,
		SeatRow:       b.SeatRow,
		SeatColumn:    b.SeatColumn,
		ETicketNumber: b.ETicketNumber,
		FlightCode:    s.flightCode,
		Price:         b.Price,
		ConfirmedAt:   at.UTC().Format(time.RFC3339),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking %s: publish confirmed event: %v", ev.ETicketNumber, err)
		}
	}()
}

// Wait blocks until background event publishes have finished.
func (s *ReservationService) Wait() { s.wg.Wait() }
