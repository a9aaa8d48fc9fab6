// Package users implements account lifecycle: signup with duplicate
// detection and login against the authoritative store. Login never
// consults the session cache so it always sees the current password
// hash.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/danial-baraty/express-todo-api/internal/password"
	"github.com/danial-baraty/express-todo-api/internal/server/auth"
)

const minPasswordLength = 8

var (
	// ErrValidation marks malformed signup/login input. The wrapped
	// message is safe to return to the caller.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials is the single undifferentiated login failure
	// for both unknown email and wrong password, so responses cannot be
	// used for account enumeration.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
)

// AuthResult is returned by SignUp and Login.
type AuthResult struct {
	User  *User
	Token string
}

// Service orchestrates signup and login.
type Service struct {
	repo   Repository
	hasher *password.Hasher
	tokens *auth.Manager
}

func NewService(repo Repository, hasher *password.Hasher, tokens *auth.Manager) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// SignUp validates input, rejects duplicate emails, hashes the password,
// creates the record and issues a session token.
//
// The pre-insert duplicate check is a fast-path friendly error only; the
// store's unique constraint closes the check-then-act race and surfaces
// as the same ErrDuplicateEmail.
func (s *Service) SignUp(ctx context.Context, email, plainPassword string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(plainPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("users: signup lookup: %w", err)
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("users: hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("users: creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("users: issuing token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login looks the account up by email in the store, verifies the
// password and issues a session token. Unknown email and wrong password
// are deliberately indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if plainPassword == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("users: login lookup: %w", err)
	}

	ok, err := s.hasher.Verify(plainPassword, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("users: issuing token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email format is invalid", ErrValidation)
	}
	return email, nil
}
