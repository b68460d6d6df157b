package authform

import (
	"context"
	"time"
)

// DefaultSubmitDelay is how long the DelaySubmitter pretends the backend
// takes to answer.
const DefaultSubmitDelay = 1500 * time.Millisecond

// Submission is a validated buffer on its way to the backend. Token
// identifies it among all submissions issued by one State.
type Submission struct {
	Token   uint64
	Payload Payload
}

// Mode returns the mode the submission was issued from.
func (s Submission) Mode() Mode {
	return s.Payload.Mode()
}

// Resolution is the outcome of a Submission. A nil Err means success.
type Resolution struct {
	Token uint64
	Mode  Mode
	Err   error
}

// Submitter performs the remote operation behind a form. Implementations
// inspect the concrete Payload type (SignInBuffer, RegisterBuffer or
// ResetBuffer). Submit blocks until the backend answers; the controller
// calls it from its own goroutine.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// SubmitterFunc adapts an ordinary function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, sub Submission) error

// Submit calls f(ctx, sub).
func (f SubmitterFunc) Submit(ctx context.Context, sub Submission) error {
	return f(ctx, sub)
}

// DelaySubmitter stands in for a backend: every submission succeeds after a
// fixed delay. It stops early only when ctx ends, which the controller does
// on Close.
type DelaySubmitter struct {
	delay time.Duration
}

// NewDelaySubmitter creates a DelaySubmitter. A zero delay answers at once;
// a negative one falls back to DefaultSubmitDelay.
func NewDelaySubmitter(delay time.Duration) *DelaySubmitter {
	if delay < 0 {
		delay = DefaultSubmitDelay
	}
	return &DelaySubmitter{delay: delay}
}

// Delay returns the configured delay.
func (s *DelaySubmitter) Delay() time.Duration {
	return s.delay
}

// Submit implements Submitter.
func (s *DelaySubmitter) Submit(ctx context.Context, _ Submission) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
