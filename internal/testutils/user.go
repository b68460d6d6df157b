package testutils

import (
	"context"
	"testing"

	"github.com/nfrund/authpanel/internal/domain"
)

// TestUser is a helper struct for creating users in tests. It carries the
// plain password that SignUp needs but domain.User never holds.
type TestUser struct {
	domain.User
	Password string `json:"password"`
}

// Ada is a registered user most tests can share.
func Ada() TestUser {
	return TestUser{
		User:     domain.User{Email: "ada@example.com", Name: "Ada Lovelace"},
		Password: "analytical",
	}
}

// SeedUsers signs every user up in repo and returns them with IDs set.
func SeedUsers(t *testing.T, repo domain.UserRepository, users ...TestUser) []TestUser {
	t.Helper()
	seeded := make([]TestUser, 0, len(users))
	for _, u := range users {
		if _, err := repo.SignUp(context.Background(), &u.User, u.Password); err != nil {
			t.Fatalf("failed to seed user %s: %v", u.Email, err)
		}
		seeded = append(seeded, u)
	}
	return seeded
}
