// Package queue defines the booking.confirmed message exchanged over
// RabbitMQ together with its publisher and the consumer that records
// confirmed bookings in a log file.
package queue

// BookingQueue is the durable queue confirmed bookings are sent to.
const BookingQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a reservation is stored.  It
// carries everything the consumer needs to write its log line without
// touching the database.
type BookingConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	PassengerName string `json:"passenger_name"`
	SeatRow       int    `json:"seat_row"`    // 0-indexed
	SeatColumn    int    `json:"seat_column"` // 0-indexed
	ETicketNumber string `json:"e_ticket_number"`
	FlightCode    string `json:"flight_code"`
	Price         int    `json:"price"`
	ConfirmedAt   string `json:"confirmed_at"` // RFC3339, UTC
}
