package models

import "time"

// Account represents a registered user, optionally privileged (admin).
type Account struct {
	CreatedAt    time.Time `db:"created_at"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	ID           int64     `db:"id"`
	IsAdmin      bool      `db:"is_admin"`
}
