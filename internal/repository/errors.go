// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrSeatTaken is returned when a reservation already holds the
// requested seat. The unique index on (seat_row, seat_column) reports
// it even when two bookings race past the availability check.
var ErrSeatTaken = errors.New("seat already taken")

// ErrReservationNotFound is returned when no reservation matches a
// ticket number.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrAdminNotFound is returned when no admin account has the given
// username.
var ErrAdminNotFound = errors.New("admin not found")

// ErrUsernameExists is returned when creating an admin whose username
// is already registered.
var ErrUsernameExists = errors.New("username already exists")

// mysqlDuplicateEntry is the server error number for unique key
// violations.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
