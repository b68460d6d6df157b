// Package app wires the form controller to its collaborators.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/do/v2"

	"github.com/nfrund/authpanel/internal/authform"
	"github.com/nfrund/authpanel/internal/backend"
	"github.com/nfrund/authpanel/internal/config"
	"github.com/nfrund/authpanel/internal/domain"
	"github.com/nfrund/authpanel/internal/email"
	"github.com/nfrund/authpanel/internal/logging"
	"github.com/nfrund/authpanel/internal/pubsub"
	"github.com/nfrund/authpanel/internal/storage"
	"github.com/nfrund/authpanel/internal/store"
)

// App is one form session with everything it depends on. Services are
// built on first use.
type App struct {
	injector  *do.RootScope
	sessionID string

	mu      sync.Mutex
	closers []func()
	closed  bool
}

// Option is a function that configures an App.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	store     storage.Store
	submitter authform.Submitter
}

// WithLogger uses l instead of a logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStore replaces the on-disk outbox storage.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithSubmitter replaces the submitter chosen by AUTH_BACKEND.
func WithSubmitter(s authform.Submitter) Option {
	return func(o *options) { o.submitter = s }
}

// New validates cfg and registers the providers.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		injector:  do.New(),
		sessionID: uuid.NewString(),
	}
	i := a.injector

	do.ProvideValue(i, cfg)

	if o.logger != nil {
		do.ProvideValue(i, o.logger)
	} else {
		do.Provide(i, func(i do.Injector) (*slog.Logger, error) {
			cfg := do.MustInvoke[*config.Config](i)
			return logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()), nil
		})
	}

	if o.store != nil {
		do.ProvideValue(i, o.store)
	} else {
		do.Provide(i, func(i do.Injector) (storage.Store, error) {
			cfg := do.MustInvoke[*config.Config](i)
			return storage.NewDiskStore(cfg.GetEmailOutboxDir()), nil
		})
	}

	do.Provide(i, func(i do.Injector) (domain.EmailSender, error) {
		return email.NewEmailService(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[storage.Store](i),
			do.MustInvoke[*slog.Logger](i),
		)
	})

	do.Provide(i, func(i do.Injector) (*store.MemoryUserStore, error) {
		return store.NewMemoryUserStore(store.WithLogger(do.MustInvoke[*slog.Logger](i))), nil
	})

	if o.submitter != nil {
		do.ProvideValue(i, o.submitter)
	} else {
		do.Provide(i, newSubmitter)
	}

	do.Provide(i, func(i do.Injector) (*authform.Validator, error) {
		return authform.NewValidator(), nil
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		bus := pubsub.NewWatermillBridge()
		a.onClose(func() {
			if err := bus.Close(); err != nil {
				slog.Error("Failed to close event bus", "error", err)
			}
		})
		return bus, nil
	})

	do.Provide(i, a.newController)

	return a, nil
}

func newSubmitter(i do.Injector) (authform.Submitter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	switch cfg.GetAuthBackend() {
	case "stub":
		return authform.NewDelaySubmitter(cfg.GetSubmitDelay()), nil
	case "memory":
		emailer, err := do.Invoke[domain.EmailSender](i)
		if err != nil {
			return nil, err
		}
		return backend.NewAccountSubmitter(
			do.MustInvoke[*store.MemoryUserStore](i),
			emailer,
			cfg.GetAppBaseURL(),
			do.MustInvoke[*slog.Logger](i),
		), nil
	default:
		return nil, fmt.Errorf("unknown auth backend: %s", cfg.GetAuthBackend())
	}
}

func (a *App) newController(i do.Injector) (*authform.Controller, error) {
	submitter, err := do.Invoke[authform.Submitter](i)
	if err != nil {
		return nil, err
	}
	bus := do.MustInvoke[*pubsub.WatermillBridge](i)
	logger := do.MustInvoke[*slog.Logger](i)

	c := authform.New(
		authform.WithSubmitter(submitter),
		authform.WithValidator(do.MustInvoke[*authform.Validator](i)),
		authform.WithLogger(logger),
		authform.WithListener(func(s authform.State) {
			if err := pubsub.Publish(context.Background(), bus, pubsub.FormState, a.sessionID, s.Snapshot()); err != nil {
				logger.Error("Failed to publish form state", "version", s.Version(), "error", err)
			}
		}),
	)
	// The controller must stop publishing before the bus closes.
	a.onClose(c.Close)
	return c, nil
}

// SignedIn returns the account of the latest sign-in or registration. It
// only reports one with the memory backend.
func (a *App) SignedIn() (*domain.User, bool) {
	sub, err := do.Invoke[authform.Submitter](a.injector)
	if err != nil {
		return nil, false
	}
	account, ok := sub.(*backend.AccountSubmitter)
	if !ok || account.Session() == "" {
		return nil, false
	}
	return a.Users().SessionUser(account.Session())
}

// SessionID identifies this session on the bus.
func (a *App) SessionID() string {
	return a.sessionID
}

// Controller returns the form controller.
func (a *App) Controller() (*authform.Controller, error) {
	return do.Invoke[*authform.Controller](a.injector)
}

// Bus returns the event bus snapshots are published on.
func (a *App) Bus() (*pubsub.WatermillBridge, error) {
	return do.Invoke[*pubsub.WatermillBridge](a.injector)
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return do.MustInvoke[*slog.Logger](a.injector)
}

// Users returns the in-memory account store.
func (a *App) Users() *store.MemoryUserStore {
	return do.MustInvoke[*store.MemoryUserStore](a.injector)
}

func (a *App) onClose(f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, f)
}

// Close shuts services down in reverse order of creation. It is safe to
// call more than once.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	closers := slices.Clone(a.closers)
	a.mu.Unlock()

	slices.Reverse(closers)
	for _, f := range closers {
		f()
	}
	a.injector.Shutdown()
}
