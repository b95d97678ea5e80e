package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the two tables the service needs. The unique key on
// (seat_row, seat_column) is what keeps a seat from being sold twice.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        passenger_name VARCHAR(255) NOT NULL,
        seat_row TINYINT UNSIGNED NOT NULL,
        seat_column TINYINT UNSIGNED NOT NULL,
        eticket_number VARCHAR(255) NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        UNIQUE KEY uq_reservation_seat (seat_row, seat_column),
        KEY idx_reservation_ticket (eticket_number),
        CONSTRAINT chk_reservation_row CHECK (seat_row < 12),
        CONSTRAINT chk_reservation_col CHECK (seat_column < 4)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        username VARCHAR(64) NOT NULL,
        password_hash VARCHAR(255) NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        UNIQUE KEY uq_admin_username (username)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
