package services

import "errors"

var (
	// ErrInvalidToken is returned when a token's signature or structure is bad.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token's embedded expiry has passed.
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// that login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registration hits the unique email index.
	ErrEmailTaken = errors.New("email already exists")

	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden means the task exists but the caller may not act on it.
	// Kept distinct from ErrTaskNotFound: denial deliberately reveals
	// existence to an authenticated caller.
	ErrForbidden = errors.New("access to this task is not allowed")
)
