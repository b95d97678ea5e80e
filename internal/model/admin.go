package model

import "time"

// Admin is an account allowed to open the occupancy dashboard. Only a
// bcrypt hash of the password is stored.
type Admin struct {
	ID           uint64    // admins.id
	Username     string    // admins.username
	PasswordHash string    // admins.password_hash
	CreatedAt    time.Time // admins.created_at
}
