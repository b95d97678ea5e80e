package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/seating"
)

// ReservationRepo persists reservations in the `reservations` table.
// The table carries a unique index on (seat_row, seat_column); Create
// relies on it to reject a second booking of the same seat.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ListSeats returns the coordinates of every reserved seat.
func (r *ReservationRepo) ListSeats(ctx context.Context) ([]seating.Seat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT seat_row, seat_column FROM reservations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []seating.Seat
	for rows.Next() {
		var s seating.Seat
		if err := rows.Scan(&s.Row, &s.Col); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListAll returns every reservation ordered by seat.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT id, passenger_name, seat_row, seat_column, eticket_number, created_at
        FROM reservations ORDER BY seat_row, seat_column`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var m model.Reservation
		if err := rows.Scan(&m.ID, &m.PassengerName, &m.SeatRow, &m.SeatColumn, &m.ETicketNumber, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create inserts a reservation inside its own transaction and populates
// the generated ID and creation timestamp. A duplicate seat is reported
// as ErrSeatTaken and nothing is written.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO reservations (passenger_name, seat_row, seat_column, eticket_number) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, res.PassengerName, res.SeatRow, res.SeatColumn, res.ETicketNumber)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to pick up the server-side timestamp
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByTicket looks up a reservation by its e-ticket number.
func (r *ReservationRepo) GetByTicket(ctx context.Context, ticket string) (model.Reservation, error) {
	const q = `SELECT id, passenger_name, seat_row, seat_column, eticket_number, created_at
        FROM reservations WHERE eticket_number = ? LIMIT 1`
	var m model.Reservation
	err := r.db.QueryRowContext(ctx, q, ticket).Scan(&m.ID, &m.PassengerName, &m.SeatRow, &m.SeatColumn, &m.ETicketNumber, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return m, err
}
