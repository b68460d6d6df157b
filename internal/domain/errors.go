package domain

import "errors"

// Errors returned by UserRepository implementations.
var (
	ErrUserAlreadyExists  = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrNotFound           = errors.New("no account with this email")
	// ErrPasswordTooLong is returned by SignUp for passwords the hash
	// function cannot take (more than 72 bytes for bcrypt).
	ErrPasswordTooLong = errors.New("password is too long")
)
