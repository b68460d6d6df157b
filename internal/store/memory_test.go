package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/authpanel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(opts ...Option) *MemoryUserStore {
	return NewMemoryUserStore(append([]Option{WithCost(bcrypt.MinCost)}, opts...)...)
}

func TestMemoryUserStore_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	user := &domain.User{Email: "Ada@Example.com", Name: "Ada Lovelace"}
	token, err := s.SignUp(ctx, user, "analytical")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, uuid.Nil, user.ID, "sign up assigns an ID")

	sessionUser, ok := s.SessionUser(token)
	require.True(t, ok)
	assert.Equal(t, user.ID, sessionUser.ID)
	assert.Equal(t, "Ada@Example.com", sessionUser.Email)

	_, ok = s.SessionUser("not-a-session")
	assert.False(t, ok)

	t.Run("email is case-insensitive", func(t *testing.T) {
		_, err := s.SignUp(ctx, &domain.User{Email: "ada@example.COM"}, "whatever1")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

		signIn := &domain.User{Email: "ADA@example.com"}
		session, err := s.SignIn(ctx, signIn, "analytical")
		require.NoError(t, err)
		assert.NotEqual(t, token, session)
		assert.Equal(t, user.ID, signIn.ID)
		assert.Equal(t, "Ada Lovelace", signIn.Name)
	})

	t.Run("password longer than 72 bytes", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		_, err := s.SignUp(ctx, &domain.User{Email: "long@example.com"}, long)
		assert.ErrorIs(t, err, domain.ErrPasswordTooLong)

		_, err = s.SignIn(ctx, &domain.User{Email: "ada@example.com"}, long)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.SignIn(ctx, &domain.User{Email: "ada@example.com"}, "analytic")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.SignIn(ctx, &domain.User{Email: "bob@example.com"}, "analytical")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("password hash is stored, not the password", func(t *testing.T) {
		found, err := s.FindUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ada@Example.com", found.Email)
		assert.NotContains(t, string(found.PasswordHash), "analytical")
	})
}

func TestMemoryUserStore_FindUserByEmail(t *testing.T) {
	s := newTestStore()
	_, err := s.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryUserStore_GenerateResetToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(WithClock(func() time.Time { return now }))

	_, err := s.SignUp(ctx, &domain.User{Email: "ada@example.com"}, "analytical")
	require.NoError(t, err)

	token, err := s.GenerateResetToken(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	found, err := s.FindUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, token, found.ResetToken)
	assert.Equal(t, now.Add(ResetTokenTTL), found.ResetTokenExpires)

	second, err := s.GenerateResetToken(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token, second)

	_, err = s.GenerateResetToken(ctx, "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryUserStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestStore()
	_, err := s.SignUp(ctx, &domain.User{Email: "ada@example.com"}, "analytical")
	assert.ErrorIs(t, err, context.Canceled)
}
