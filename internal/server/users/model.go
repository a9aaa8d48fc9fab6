package users

import "time"

// User is the durable account record. The password hash is write-only
// from the API's perspective and is never serialized into responses or
// the session cache.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
