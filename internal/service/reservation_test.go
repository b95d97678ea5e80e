package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
	"github.com/iliyamo/flight-seat-reservation/internal/service/servicetest"
	"github.com/iliyamo/flight-seat-reservation/internal/ticket"
)

const flightCode = "IT4320"

func TestBookFreeSeat(t *testing.T) {
	store := servicetest.NewReservationStore()
	pub := &servicetest.Publisher{}
	svc := NewReservationService(store, pub, flightCode)

	b, err := svc.Book(context.Background(), BookingRequest{FirstName: "Jane", LastName: "Doe", SeatRow: 0, SeatColumn: 0})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if b.PassengerName != "Jane Doe" {
		t.Errorf("PassengerName = %q", b.PassengerName)
	}
	if want := ticket.Generate("Jane Doe", flightCode); b.ETicketNumber != want {
		t.Errorf("ETicketNumber = %q, want %q", b.ETicketNumber, want)
	}
	if b.Price != 100 {
		t.Errorf("Price = %d, want 100", b.Price)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d rows, want 1", store.Len())
	}

	svc.Wait()
	evs := pub.Events()
	if len(evs) != 1 || evs[0].ETicketNumber != b.ETicketNumber || evs[0].FlightCode != flightCode {
		t.Fatalf("events = %+v", evs)
	}
}

func TestBookTakenSeatDoesNotWrite(t *testing.T) {
	store := servicetest.NewReservationStore()
	svc := NewReservationService(store, nil, flightCode)
	ctx := context.Background()

	if _, err := svc.Book(ctx, BookingRequest{FirstName: "Jane", LastName: "Doe"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Book(ctx, BookingRequest{FirstName: "John", LastName: "Roe"})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("err = %v, want ErrSeatTaken", err)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d rows after failed booking, want 1", store.Len())
	}
}

func TestBookRaceReportsSeatTaken(t *testing.T) {
	store := servicetest.NewReservationStore()
	// Another booking lands between the availability check and the insert.
	store.BeforeCreate = func() {
		store.BeforeCreate = nil
		store.Insert(model.Reservation{PassengerName: "Fast One", SeatRow: 3, SeatColumn: 2, ETicketNumber: "x"})
	}
	pub := &servicetest.Publisher{}
	svc := NewReservationService(store, pub, flightCode)

	_, err := svc.Book(context.Background(), BookingRequest{FirstName: "Slow", LastName: "One", SeatRow: 3, SeatColumn: 2})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("err = %v, want ErrSeatTaken", err)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d rows, want 1", store.Len())
	}
	svc.Wait()
	if n := len(pub.Events()); n != 0 {
		t.Fatalf("published %d events for a failed booking", n)
	}
}

func TestBookValidation(t *testing.T) {
	svc := NewReservationService(servicetest.NewReservationStore(), nil, flightCode)
	ctx := context.Background()

	for _, req := range []BookingRequest{
		{FirstName: "A", LastName: "B", SeatRow: 12},
		{FirstName: "A", LastName: "B", SeatRow: -1},
		{FirstName: "A", LastName: "B", SeatColumn: 4},
	} {
		if _, err := svc.Book(ctx, req); !errors.Is(err, seating.ErrSeatOutOfRange) {
			t.Errorf("Book(%+v) err = %v, want ErrSeatOutOfRange", req, err)
		}
	}
	if _, err := svc.Book(ctx, BookingRequest{FirstName: "  ", LastName: ""}); !errors.Is(err, ErrInvalidPassenger) {
		t.Errorf("blank name err = %v, want ErrInvalidPassenger", err)
	}
}

func TestBookStorageError(t *testing.T) {
	store := servicetest.NewReservationStore()
	boom := errors.New("connection refused")
	store.Err = boom
	svc := NewReservationService(store, nil, flightCode)
	_, err := svc.Book(context.Background(), BookingRequest{FirstName: "A", LastName: "B"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped storage error", err)
	}
	if errors.Is(err, ErrSeatTaken) {
		t.Fatal("storage error reported as seat taken")
	}
}

func TestBookPublishFailureKeepsBooking(t *testing.T) {
	store := servicetest.NewReservationStore()
	pub := &servicetest.Publisher{Err: servicetest.ErrBrokerDown}
	svc := NewReservationService(store, pub, flightCode)
	if _, err := svc.Book(context.Background(), BookingRequest{FirstName: "A", LastName: "B", SeatRow: 1, SeatColumn: 1}); err != nil {
		t.Fatalf("Book: %v", err)
	}
	svc.Wait()
	if store.Len() != 1 {
		t.Fatalf("store has %d rows, want 1", store.Len())
	}
}

func TestBookingMessage(t *testing.T) {
	svc := NewReservationService(servicetest.NewReservationStore(), nil, flightCode)
	b, err := svc.Book(context.Background(), BookingRequest{FirstName: "A", LastName: "B", SeatRow: 5, SeatColumn: 1})
	if err != nil {
		t.Fatal(err)
	}
	if b.ETicketNumber != "AI TB4320" {
		t.Fatalf("ETicketNumber = %q", b.ETicketNumber)
	}
	msg := b.Message()
	if !strings.Contains(msg, "Row 6, Column 2") || !strings.Contains(msg, "AI TB4320") {
		t.Fatalf("Message() = %q", msg)
	}
}

func TestLookup(t *testing.T) {
	svc := NewReservationService(servicetest.NewReservationStore(), nil, flightCode)
	b, _ := svc.Book(context.Background(), BookingRequest{FirstName: "Jane", LastName: "Doe", SeatRow: 2, SeatColumn: 3})
	got, err := svc.Lookup(context.Background(), " "+b.ETicketNumber+" ")
	if err != nil {
		t.Fatal(err)
	}
	if got.SeatRow != 2 || got.SeatColumn != 3 || got.PassengerName != "Jane Doe" {
		t.Fatalf("Lookup = %+v", got)
	}
}
