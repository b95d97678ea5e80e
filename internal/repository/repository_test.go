package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/flight-seat-reservation/internal/model"
	"github.com/iliyamo/flight-seat-reservation/internal/utils"
)

func newMock(t *testing.T) (*ReservationRepo, *AdminRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewReservationRepo(db), NewAdminRepo(db), mock
}

func TestCreateReservation(t *testing.T) {
	repo, _, mock := newMock(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WithArgs("A B", 5, 1, "AI TB4320").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM reservations WHERE id = ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	res := &model.Reservation{PassengerName: "A B", SeatRow: 5, SeatColumn: 1, ETicketNumber: "AI TB4320"}
	if err := repo.Create(context.Background(), res); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.ID != 7 || !res.CreatedAt.Equal(now) {
		t.Fatalf("res = %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateReservationDuplicateSeat(t *testing.T) {
	repo, _, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5-1' for key 'uq_reservation_seat'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Reservation{PassengerName: "A B", SeatRow: 5, SeatColumn: 1})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("err = %v, want ErrSeatTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateReservationOtherError(t *testing.T) {
	repo, _, mock := newMock(t)
	boom := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Reservation{})
	if errors.Is(err, ErrSeatTaken) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestListSeats(t *testing.T) {
	repo, _, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT seat_row, seat_column FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"seat_row", "seat_column"}).AddRow(0, 0).AddRow(5, 1))

	seats, err := repo.ListSeats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(seats) != 2 || seats[1].Row != 5 || seats[1].Col != 1 {
		t.Fatalf("seats = %+v", seats)
	}
}

func TestListAll(t *testing.T) {
	repo, _, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, passenger_name, seat_row, seat_column, eticket_number, created_at")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_name", "seat_row", "seat_column", "eticket_number", "created_at"}).
			AddRow(1, "Jane Doe", 0, 3, "JIaTn4e3 2D0oe", now))

	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].PassengerName != "Jane Doe" || all[0].SeatColumn != 3 {
		t.Fatalf("all = %+v", all)
	}
}

func TestGetByTicketNotFound(t *testing.T) {
	repo, _, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE eticket_number = ?")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_name", "seat_row", "seat_column", "eticket_number", "created_at"}))

	if _, err := repo.GetByTicket(context.Background(), "nope"); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}
}

func TestAdminCreateHashesPassword(t *testing.T) {
	_, admins, mock := newMock(t)
	var stored string
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs("root", hashArg{plain: "hunter2", out: &stored}).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := admins.Create(context.Background(), " root ", "hunter2", 4)
	if err != nil || id != 1 {
		t.Fatalf("Create = %d, %v", id, err)
	}
	if stored == "hunter2" || !utils.VerifyPassword(stored, "hunter2") {
		t.Fatalf("stored hash %q does not verify", stored)
	}
}

func TestAdminCreateDuplicate(t *testing.T) {
	_, admins, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	if _, err := admins.Create(context.Background(), "root", "pw", 4); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want ErrUsernameExists", err)
	}
}

func TestAdminGetByUsername(t *testing.T) {
	_, admins, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE username=?")).
		WithArgs("root").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).AddRow(1, "root", "$2a$hash", time.Now()))
	a, err := admins.GetByUsername(context.Background(), "root")
	if err != nil || a.Username != "root" {
		t.Fatalf("GetByUsername = %+v, %v", a, err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE username=?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))
	if _, err := admins.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("err = %v, want ErrAdminNotFound", err)
	}
}

// hashArg matches a bcrypt hash argument and records it.
type hashArg struct {
	plain string
	out   *string
}

func (h hashArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*h.out = s
	return utils.VerifyPassword(s, h.plain)
}
