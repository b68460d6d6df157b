package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents the core user model in the application domain.
type User struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name,omitempty"`
	PasswordHash      []byte    `json:"-"`
	ResetToken        string    `json:"-"`
	ResetTokenExpires time.Time `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the storage implementation.
type UserRepository interface {
	// SignUp stores a new user and returns a session token.
	SignUp(ctx context.Context, user *User, password string) (string, error)
	// SignIn checks the password of the user with user.Email and returns a
	// session token.
	SignIn(ctx context.Context, user *User, password string) (string, error)
	// FindUserByEmail returns ErrNotFound when no user has the address.
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	// GenerateResetToken creates a password reset token for the user.
	GenerateResetToken(ctx context.Context, email string) (string, error)
}
