package model

import "time"

// Reservation records one passenger holding one seat on the flight.
// Rows are written once when a booking succeeds and never updated.
//
// Fields:
//  ID            – primary key identifier.
//  PassengerName – given and family name joined by a single space.
//  SeatRow       – 0-indexed cabin row.
//  SeatColumn    – 0-indexed cabin column.
//  ETicketNumber – ticket identifier generated at booking time.
//  CreatedAt     – creation timestamp.
type Reservation struct {
	ID            uint64    `json:"id"`              // reservations.id
	PassengerName string    `json:"passenger_name"`  // reservations.passenger_name
	SeatRow       int       `json:"seat_row"`        // reservations.seat_row
	SeatColumn    int       `json:"seat_column"`     // reservations.seat_column
	ETicketNumber string    `json:"e_ticket_number"` // reservations.eticket_number
	CreatedAt     time.Time `json:"created_at"`      // reservations.created_at
}
