package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by lookups when no user matches.
	ErrNotFound = errors.New("users: not found")
	// ErrDuplicateEmail is returned by Create when the email is already
	// taken. The store's uniqueness constraint is the authoritative
	// guard; pre-checks only produce a friendlier fast path.
	ErrDuplicateEmail = errors.New("users: email already registered")
)

// Repository is the credential store adapter. Implementations must be
// safe for concurrent use.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
