package authform_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/authpanel/internal/authform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gateSubmitter blocks every submission until the test releases it.
type gateSubmitter struct {
	mu      sync.Mutex
	calls   []authform.Submission
	release chan error
}

func newGateSubmitter() *gateSubmitter {
	return &gateSubmitter{release: make(chan error)}
}

func (g *gateSubmitter) Submit(ctx context.Context, sub authform.Submission) error {
	g.mu.Lock()
	g.calls = append(g.calls, sub)
	g.mu.Unlock()

	select {
	case err := <-g.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gateSubmitter) getCalls() []authform.Submission {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]authform.Submission, len(g.calls))
	copy(result, g.calls)
	return result
}

// stateRecorder collects every state a controller reports.
type stateRecorder struct {
	mu     sync.Mutex
	states []authform.State
}

func (r *stateRecorder) listen(s authform.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) getStates() []authform.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]authform.State, len(r.states))
	copy(result, r.states)
	return result
}

func newTestController(t *testing.T, opts ...authform.Option) (*authform.Controller, *gateSubmitter) {
	t.Helper()
	gate := newGateSubmitter()
	c := authform.New(append([]authform.Option{authform.WithSubmitter(gate)}, opts...)...)
	t.Cleanup(c.Close)
	return c, gate
}

func edit(t *testing.T, c *authform.Controller, field authform.Field, value string) {
	t.Helper()
	_, err := c.EditField(field, value)
	require.NoError(t, err)
}

func fillRegisterForm(t *testing.T, c *authform.Controller) {
	t.Helper()
	_, err := c.SwitchMode(authform.ModeRegister)
	require.NoError(t, err)
	edit(t, c, authform.FieldFirstName, "Ada")
	edit(t, c, authform.FieldLastName, "Lovelace")
	edit(t, c, authform.FieldEmail, "ada@example.com")
	edit(t, c, authform.FieldPassword, "analytical")
	edit(t, c, authform.FieldConfirmPassword, "analytical")
	_, err = c.SetTerms(true)
	require.NoError(t, err)
}

func TestController_SignInEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	edit(t, c, authform.FieldEmail, "a@b.com")
	edit(t, c, authform.FieldPassword, "x")

	s, err := c.Submit()
	require.NoError(t, err)
	assert.True(t, s.Errors().Empty())
	assert.Equal(t, authform.StatusPending, s.Status())

	gate.release <- nil
	c.Wait()

	s = c.State()
	assert.Equal(t, authform.StatusSucceeded, s.Status())
	assert.Equal(t, authform.NoticeSignedIn, s.Notice())
	assert.Equal(t, authform.SignInBuffer{Email: "a@b.com", Password: "x"}, s.SignInBuffer())

	calls := gate.getCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, authform.SignInBuffer{Email: "a@b.com", Password: "x"}, calls[0].Payload)
	c.Close()
}

func TestController_SignInMissingPassword(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	edit(t, c, authform.FieldEmail, "a@b.com")

	s, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, authform.ErrorSet{"password": "Password is required"}, s.Errors())
	assert.Equal(t, authform.StatusIdle, s.Status())

	c.Wait()
	assert.Empty(t, gate.getCalls())
	c.Close()
}

func TestController_RegisterMismatchedPasswords(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	fillRegisterForm(t, c)
	edit(t, c, authform.FieldConfirmPassword, "analytic")

	s, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, []string{"confirmPassword"}, s.Errors().Keys())
	assert.Equal(t, authform.StatusIdle, s.Status())

	c.Wait()
	assert.Empty(t, gate.getCalls())
	c.Close()
}

func TestController_RegisterSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	fillRegisterForm(t, c)

	s, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, authform.StatusPending, s.Status())
	assert.False(t, c.State().CanSubmit())

	gate.release <- nil
	c.Wait()

	s = c.State()
	assert.Equal(t, authform.ModeSignIn, s.Mode())
	assert.Equal(t, authform.RegisterBuffer{}, s.RegisterBuffer())
	assert.False(t, s.TermsAccepted())
	assert.Equal(t, authform.NoticeRegistered, s.Notice())
	c.Close()
}

func TestController_StaleRegisterResolution(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &stateRecorder{}
	c, gate := newTestController(t, authform.WithListener(rec.listen))
	fillRegisterForm(t, c)

	_, err := c.Submit()
	require.NoError(t, err)

	s, err := c.SwitchMode(authform.ModeSignIn)
	require.NoError(t, err)
	assert.Equal(t, authform.StatusIdle, s.Status())
	assert.True(t, s.CanSubmit(), "the new mode is not blocked by the old submission")
	seen := len(rec.getStates())

	gate.release <- nil
	c.Wait()

	after := c.State()
	assert.Equal(t, s, after)
	assert.Equal(t, authform.ModeSignIn, after.Mode())
	assert.Equal(t, "Ada", after.RegisterBuffer().FirstName)
	assert.Empty(t, after.Notice())
	assert.Len(t, rec.getStates(), seen, "stale results do not notify listeners")
	c.Close()
}

func TestController_SubmitWhilePending(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	edit(t, c, authform.FieldEmail, "a@b.com")
	edit(t, c, authform.FieldPassword, "x")

	_, err := c.Submit()
	require.NoError(t, err)
	_, err = c.Submit()
	assert.ErrorIs(t, err, authform.ErrSubmitPending)

	gate.release <- nil
	c.Wait()
	assert.Len(t, gate.getCalls(), 1)
	c.Close()
}

func TestController_SubmissionFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	_, err := c.SwitchMode(authform.ModeResetRequest)
	require.NoError(t, err)
	edit(t, c, authform.FieldEmail, "a@b.com")

	_, err = c.Submit()
	require.NoError(t, err)
	gate.release <- authform.Reject("Service unavailable.")
	c.Wait()

	s := c.State()
	assert.Equal(t, authform.StatusFailed, s.Status())
	assert.Equal(t, "Service unavailable.", s.SubmitError())
	assert.Equal(t, authform.ResetBuffer{Email: "a@b.com"}, s.ResetBuffer(), "failed submissions keep the input")
	c.Close()
}

func TestController_ListenerOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &stateRecorder{}
	c, gate := newTestController(t, authform.WithListener(rec.listen))
	edit(t, c, authform.FieldEmail, "a@b.com")
	edit(t, c, authform.FieldPassword, "x")
	_, err := c.Submit()
	require.NoError(t, err)
	gate.release <- nil
	c.Wait()

	states := rec.getStates()
	require.Len(t, states, 4)
	for i := 1; i < len(states); i++ {
		assert.Less(t, states[i-1].Version(), states[i].Version())
	}
	assert.Equal(t, authform.StatusSucceeded, states[3].Status())
	c.Close()
}

func TestController_RejectedEventKeepsState(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, _ := newTestController(t)
	before := c.State()

	_, err := c.SetTerms(true)
	assert.ErrorIs(t, err, authform.ErrFieldNotInMode)
	assert.Equal(t, before, c.State())
	c.Close()
}

func TestController_Close(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, gate := newTestController(t)
	edit(t, c, authform.FieldEmail, "a@b.com")
	edit(t, c, authform.FieldPassword, "x")
	_, err := c.Submit()
	require.NoError(t, err)

	c.Close()
	assert.Len(t, gate.getCalls(), 1)
	assert.Equal(t, authform.StatusPending, c.State().Status(), "results arriving after close are ignored")

	_, err = c.SwitchMode(authform.ModeRegister)
	assert.ErrorIs(t, err, authform.ErrClosed)
}

func TestController_DefaultDelaySubmitter(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := authform.New(authform.WithSubmitter(authform.NewDelaySubmitter(20 * time.Millisecond)))
	defer c.Close()

	_, err := c.SwitchMode(authform.ModeResetRequest)
	require.NoError(t, err)
	_, err = c.EditField(authform.FieldEmail, "a@b.com")
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Submit()
	require.NoError(t, err)
	c.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	s := c.State()
	assert.Equal(t, authform.StatusSucceeded, s.Status())
	assert.Equal(t, authform.ResetBuffer{}, s.ResetBuffer())
}
