// Package backend connects the auth form to the account store.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/nfrund/authpanel/internal/authform"
	"github.com/nfrund/authpanel/internal/domain"
)

// Messages shown to the user when the store refuses a submission.
const (
	MessageInvalidCredentials = "Invalid email or password."
	MessageUserExists         = "A user with this email already exists."
	MessagePasswordTooLong    = "Password must be at most 72 bytes long."
	ResetSubject              = "Reset Your Password"
)

// AccountSubmitter is an authform.Submitter backed by a UserRepository.
type AccountSubmitter struct {
	userStore domain.UserRepository
	emailer   domain.EmailSender
	baseURL   string
	logger    *slog.Logger

	mu      sync.Mutex
	session string
}

// NewAccountSubmitter creates a new AccountSubmitter. emailer may be nil, in
// which case reset links are only logged at debug level.
func NewAccountSubmitter(store domain.UserRepository, emailer domain.EmailSender, baseURL string, logger *slog.Logger) *AccountSubmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountSubmitter{
		userStore: store,
		emailer:   emailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger.With("component", "backend"),
	}
}

// Submit routes the payload to the store operation of its mode.
func (a *AccountSubmitter) Submit(ctx context.Context, sub authform.Submission) error {
	switch p := sub.Payload.(type) {
	case authform.SignInBuffer:
		return a.signIn(ctx, p)
	case authform.RegisterBuffer:
		return a.register(ctx, p)
	case authform.ResetBuffer:
		a.requestReset(ctx, p)
		return nil
	default:
		return fmt.Errorf("unsupported payload %T", sub.Payload)
	}
}

// Session returns the token of the most recent successful sign-in or
// registration.
func (a *AccountSubmitter) Session() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *AccountSubmitter) signIn(ctx context.Context, p authform.SignInBuffer) error {
	token, err := a.userStore.SignIn(ctx, &domain.User{Email: p.Email}, p.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.logger.InfoContext(ctx, "Sign-in refused", "email", p.Email)
			return authform.Reject(MessageInvalidCredentials)
		}
		return fmt.Errorf("sign in: %w", err)
	}
	a.setSession(token)
	a.logger.InfoContext(ctx, "User signed in", "email", p.Email)
	return nil
}

func (a *AccountSubmitter) register(ctx context.Context, p authform.RegisterBuffer) error {
	user := &domain.User{
		Email: p.Email,
		Name:  strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)),
	}
	token, err := a.userStore.SignUp(ctx, user, p.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return authform.Reject(MessageUserExists)
		case errors.Is(err, domain.ErrPasswordTooLong):
			return authform.Reject(MessagePasswordTooLong)
		}
		return fmt.Errorf("sign up: %w", err)
	}
	a.setSession(token)
	a.logger.InfoContext(ctx, "User registered", "email", user.Email, "id", user.ID)
	return nil
}

// requestReset never reports a failure so that the form cannot be used to
// discover which addresses have accounts.
func (a *AccountSubmitter) requestReset(ctx context.Context, p authform.ResetBuffer) {
	token, err := a.userStore.GenerateResetToken(ctx, p.Email)
	if err != nil {
		a.logger.InfoContext(ctx, "Error generating reset token, hiding from user", "email", p.Email, "error", err)
		return
	}
	if token == "" {
		return
	}

	link := a.ResetLink(token)
	if a.emailer == nil {
		a.logger.DebugContext(ctx, "No emailer configured, reset link not sent", "email", p.Email, "link", link)
		return
	}
	body := fmt.Sprintf(`<p>Click the link below to reset your password:</p><a href="%s">Reset Password</a>`, link)
	if err := a.emailer.Send(ctx, domain.Email{To: p.Email, Subject: ResetSubject, HTMLBody: body}); err != nil {
		a.logger.ErrorContext(ctx, "Failed to send password reset email", "error", err, "email", p.Email)
	}
}

// ResetLink returns the page a reset token is redeemed on.
func (a *AccountSubmitter) ResetLink(token string) string {
	return a.baseURL + "/auth/reset-password?token=" + url.QueryEscape(token)
}

func (a *AccountSubmitter) setSession(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = token
}
