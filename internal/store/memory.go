package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/authpanel/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 24 * time.Hour

// MemoryUserStore keeps accounts in process memory. Nothing survives a
// restart.
type MemoryUserStore struct {
	mu       sync.RWMutex
	users    map[string]*domain.User // folded email -> user
	sessions map[string]uuid.UUID    // session token -> user ID

	cost   int
	now    func() time.Time
	logger *slog.Logger
}

var _ domain.UserRepository = (*MemoryUserStore)(nil)

// Option is a function that configures a MemoryUserStore.
type Option func(*MemoryUserStore)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *MemoryUserStore) {
		s.cost = cost
	}
}

// WithClock overrides the time source used for reset token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryUserStore) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *MemoryUserStore) {
		s.logger = l
	}
}

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore(opts ...Option) *MemoryUserStore {
	s := &MemoryUserStore{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]uuid.UUID),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emailKey folds case so that "Ada@Example.com" and "ada@example.com" are
// the same account.
func emailKey(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// SignUp stores a new user with a bcrypt hash of password and returns a
// session token.
func (s *MemoryUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	key := emailKey(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return "", domain.ErrUserAlreadyExists
	}

	stored := &domain.User{
		ID:           uuid.New(),
		Email:        strings.TrimSpace(user.Email),
		Name:         user.Name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[key] = stored
	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt

	s.logger.Info("Signed up user", "user_id", stored.ID, "email", stored.Email)
	return s.openSession(stored.ID), nil
}

// SignIn verifies password for user.Email and returns a new session token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *MemoryUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[emailKey(user.Email)]
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.ID = stored.ID
	user.Name = stored.Name
	s.logger.Info("Signed in user", "user_id", stored.ID)
	return s.openSession(stored.ID), nil
}

// FindUserByEmail returns a copy of the stored user.
func (s *MemoryUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.users[emailKey(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	found := *stored
	return &found, nil
}

// GenerateResetToken creates a secure reset token that expires after
// ResetTokenTTL. A newer token replaces any previous one.
func (s *MemoryUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := generateSecureToken(32) // 32 bytes = 64 hex chars
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[emailKey(email)]
	if !ok {
		return "", fmt.Errorf("error finding user: %w", domain.ErrNotFound)
	}
	stored.ResetToken = token
	stored.ResetTokenExpires = s.now().Add(ResetTokenTTL)
	return token, nil
}

// SessionUser returns a copy of the user a session token belongs to.
func (s *MemoryUserStore) SessionUser(token string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	for _, u := range s.users {
		if u.ID == id {
			found := *u
			return &found, true
		}
	}
	return nil, false
}

// openSession must be called with s.mu held.
func (s *MemoryUserStore) openSession(id uuid.UUID) string {
	token := uuid.NewString()
	s.sessions[token] = id
	return token
}

// generateSecureToken creates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
