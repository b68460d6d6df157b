package authform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Listener is called with the new state after every change. Listeners run
// on the goroutine that caused the change, outside the controller lock, so
// they may observe states out of order; State.Version orders them.
type Listener func(State)

// Controller owns the single form session. All mutations go through
// Dispatch, which serializes them and starts submissions in the background.
type Controller struct {
	mu     sync.Mutex
	state  State
	closed bool

	validator *Validator
	submitter Submitter
	listeners []Listener
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option is a function that configures a Controller.
type Option func(*Controller)

// WithSubmitter sets the backend used for valid submissions.
func WithSubmitter(s Submitter) Option {
	return func(c *Controller) {
		c.submitter = s
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *Validator) Option {
	return func(c *Controller) {
		c.validator = v
	}
}

// WithLogger sets the logger used for transition and submission logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithListener registers a listener for state changes. It may be given
// more than once.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, l)
	}
}

// New creates a Controller in the initial sign-in state. Without options it
// uses a DelaySubmitter with DefaultSubmitDelay.
func New(opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		state:  Initial(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = NewValidator()
	}
	if c.submitter == nil {
		c.submitter = NewDelaySubmitter(DefaultSubmitDelay)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "authform")
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current state prepared for display.
func (c *Controller) Snapshot() Snapshot {
	return c.State().Snapshot()
}

// Dispatch applies ev and returns the resulting state. If ev produced a
// submission, it is already running when Dispatch returns.
func (c *Controller) Dispatch(ev Event) (State, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}, ErrClosed
	}

	prev := c.state
	next, sub, err := Apply(prev, ev, c.validator)
	if err != nil {
		c.mu.Unlock()
		c.logRejected(prev, ev, err)
		return prev, err
	}
	c.state = next
	if sub != nil {
		c.wg.Add(1)
	}
	c.mu.Unlock()

	c.logTransition(prev, next, ev)
	if sub != nil {
		go c.run(*sub)
	}
	for _, l := range c.listeners {
		l(next)
	}
	return next, nil
}

// SwitchMode shows another form.
func (c *Controller) SwitchMode(target Mode) (State, error) {
	return c.Dispatch(SwitchModeEvent{Target: target})
}

// EditField updates one input of the active form.
func (c *Controller) EditField(field Field, value string) (State, error) {
	return c.Dispatch(EditFieldEvent{Field: field, Value: value})
}

// SetTerms ticks or clears the registration agreement.
func (c *Controller) SetTerms(accepted bool) (State, error) {
	return c.Dispatch(SetTermsEvent{Accepted: accepted})
}

// ToggleReveal flips a password visibility toggle.
func (c *Controller) ToggleReveal(target Reveal) (State, error) {
	return c.Dispatch(ToggleRevealEvent{Target: target})
}

// Submit validates the active form and submits it when valid. Validation
// failures are not errors: they show up in the returned state's Errors.
func (c *Controller) Submit() (State, error) {
	return c.Dispatch(SubmitEvent{})
}

// Wait blocks until every submission started so far has resolved.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close stops accepting events, cancels outstanding submissions and waits
// for their goroutines to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) run(sub Submission) {
	defer c.wg.Done()

	c.logger.Debug("Submission started", "mode", sub.Mode(), "token", sub.Token)
	err := c.submitter.Submit(c.ctx, sub)

	_, dispatchErr := c.Dispatch(ResolveEvent{Resolution{Token: sub.Token, Mode: sub.Mode(), Err: err}})
	switch {
	case errors.Is(dispatchErr, ErrStaleResolution):
		c.logger.Debug("Discarding stale submission result", "mode", sub.Mode(), "token", sub.Token)
	case errors.Is(dispatchErr, ErrClosed):
		c.logger.Debug("Submission resolved after close", "mode", sub.Mode(), "token", sub.Token)
	case dispatchErr != nil:
		c.logger.Error("Failed to apply submission result", "mode", sub.Mode(), "token", sub.Token, "error", dispatchErr)
	case err != nil:
		c.logger.Warn("Submission failed", "mode", sub.Mode(), "token", sub.Token, "error", err)
	default:
		c.logger.Info("Submission succeeded", "mode", sub.Mode(), "token", sub.Token)
	}
}

func (c *Controller) logTransition(prev, next State, ev Event) {
	c.logger.Debug("Form state changed",
		"event", eventName(ev),
		"mode", next.Mode(),
		"status", next.Status(),
		"from_mode", prev.Mode(),
		"from_status", prev.Status(),
		"errors", len(next.errors),
		"version", next.Version(),
	)
}

func (c *Controller) logRejected(s State, ev Event, err error) {
	if errors.Is(err, ErrStaleResolution) {
		return
	}
	c.logger.Debug("Form event rejected", "event", eventName(ev), "mode", s.Mode(), "error", err)
}

func eventName(ev Event) string {
	switch ev.(type) {
	case SwitchModeEvent:
		return "switch_mode"
	case EditFieldEvent:
		return "edit_field"
	case SetTermsEvent:
		return "set_terms"
	case ToggleRevealEvent:
		return "toggle_reveal"
	case SubmitEvent:
		return "submit"
	case ResolveEvent:
		return "resolve"
	default:
		return "unknown"
	}
}
