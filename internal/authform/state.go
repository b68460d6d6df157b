package authform

import "fmt"

// Success notices shown after a submission resolves.
const (
	NoticeSignedIn   = "Login successful!"
	NoticeRegistered = "Account created successfully!"
	NoticeResetSent  = "Password reset link sent to your email!"
)

// RevealFlags controls whether password inputs are shown in clear text.
type RevealFlags struct {
	Password        bool `json:"password"`
	ConfirmPassword bool `json:"confirmPassword"`
}

// Reveal names one of the two password visibility toggles.
type Reveal string

const (
	RevealPassword        Reveal = "password"
	RevealConfirmPassword Reveal = "confirmPassword"
)

// State is the whole form session: active mode, the three buffers, the
// current errors, submission status and reveal flags. It is a value; every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	mode     Mode
	signIn   SignInBuffer
	register RegisterBuffer
	reset    ResetBuffer

	errors    ErrorSet
	status    SubmissionStatus
	reveal    RevealFlags
	notice    string
	submitErr string

	// pending is the token of the outstanding submission, zero when none.
	pending   uint64
	lastToken uint64
	version   uint64
}

// Initial returns the state shown at startup: sign-in, idle, empty buffers.
func Initial() State {
	return State{
		mode:   ModeSignIn,
		errors: ErrorSet{},
		status: StatusIdle,
	}
}

func (s State) Mode() Mode                 { return s.mode }
func (s State) Status() SubmissionStatus   { return s.status }
func (s State) Reveal() RevealFlags        { return s.reveal }
func (s State) Notice() string             { return s.notice }
func (s State) SubmitError() string        { return s.submitErr }
func (s State) SignInBuffer() SignInBuffer { return s.signIn }
func (s State) ResetBuffer() ResetBuffer   { return s.reset }
func (s State) PendingToken() uint64       { return s.pending }
func (s State) Version() uint64            { return s.version }

func (s State) RegisterBuffer() RegisterBuffer { return s.register }

// Errors returns a copy of the current error set.
func (s State) Errors() ErrorSet { return s.errors.Clone() }

// TermsAccepted reports the registration agreement checkbox.
func (s State) TermsAccepted() bool { return s.register.TermsAccepted }

// Value returns the text of field in the active mode's buffer.
func (s State) Value(field Field) string {
	switch s.mode {
	case ModeSignIn:
		return s.signIn.value(field)
	case ModeRegister:
		return s.register.value(field)
	case ModeResetRequest:
		return s.reset.value(field)
	}
	return ""
}

// CanSubmit reports whether the submit control is enabled. Registration
// stays disabled until the terms are accepted.
func (s State) CanSubmit() bool {
	if s.status == StatusPending {
		return false
	}
	if s.mode == ModeRegister && !s.register.TermsAccepted {
		return false
	}
	return true
}

// SwitchMode makes target the active mode. The switch is allowed at any
// time; an outstanding submission simply loses its claim on the state.
func (s State) SwitchMode(target Mode) (State, error) {
	if !target.Valid() {
		return s, fmt.Errorf("%w: %d", ErrUnknownMode, int(target))
	}
	s.mode = target
	s.errors = ErrorSet{}
	s.reveal = RevealFlags{}
	s.notice = ""
	s.submitErr = ""
	s.register.TermsAccepted = false
	s.status = s.status.reset()
	s.pending = 0
	s.version++
	return s, nil
}

// EditField stores value into field of the active buffer.
func (s State) EditField(field Field, value string) (State, error) {
	if field == FieldTerms || !s.mode.Owns(field) {
		return s, fmt.Errorf("%w: %s in %s", ErrFieldNotInMode, field, s.mode)
	}
	switch s.mode {
	case ModeSignIn:
		s.signIn = s.signIn.with(field, value)
	case ModeRegister:
		s.register = s.register.with(field, value)
	case ModeResetRequest:
		s.reset = s.reset.with(field, value)
	}
	s.version++
	return s, nil
}

// SetTerms sets the registration agreement checkbox.
func (s State) SetTerms(accepted bool) (State, error) {
	if s.mode != ModeRegister {
		return s, fmt.Errorf("%w: %s in %s", ErrFieldNotInMode, FieldTerms, s.mode)
	}
	s.register.TermsAccepted = accepted
	s.version++
	return s, nil
}

// ToggleReveal flips one of the password visibility toggles.
func (s State) ToggleReveal(r Reveal) (State, error) {
	switch {
	case r == RevealPassword && s.mode != ModeResetRequest:
		s.reveal.Password = !s.reveal.Password
	case r == RevealConfirmPassword && s.mode == ModeRegister:
		s.reveal.ConfirmPassword = !s.reveal.ConfirmPassword
	default:
		return s, fmt.Errorf("%w: reveal %s in %s", ErrFieldNotInMode, r, s.mode)
	}
	s.version++
	return s, nil
}

// Submit validates the active buffer. When the buffer is invalid the errors
// are stored and no Submission is returned. Otherwise the state moves to
// pending under a fresh token and the returned Submission must be run.
func (s State) Submit(v *Validator) (State, *Submission, error) {
	if s.status == StatusPending {
		return s, nil, ErrSubmitPending
	}

	s.errors = v.Validate(s)
	s.notice = ""
	s.submitErr = ""
	s.version++

	if !s.errors.Empty() {
		s.status = s.status.reset()
		return s, nil, nil
	}

	status, err := s.status.next(eventSubmit)
	if err != nil {
		return s, nil, err
	}
	s.status = status
	s.lastToken++
	s.pending = s.lastToken

	return s, &Submission{Token: s.pending, Payload: s.payload()}, nil
}

// Resolve applies the outcome of a submission. Outcomes whose token or mode
// no longer match the outstanding submission are rejected with
// ErrStaleResolution and leave the state unchanged.
func (s State) Resolve(r Resolution) (State, error) {
	if s.status != StatusPending || r.Token == 0 || r.Token != s.pending || r.Mode != s.mode {
		return s, fmt.Errorf("%w: token %d for %s", ErrStaleResolution, r.Token, r.Mode)
	}

	if r.Err != nil {
		status, err := s.status.next(eventFail)
		if err != nil {
			return s, err
		}
		s.status = status
		s.pending = 0
		s.submitErr = FailureMessage(r.Err)
		s.version++
		return s, nil
	}

	status, err := s.status.next(eventSucceed)
	if err != nil {
		return s, err
	}
	s.status = status
	s.pending = 0
	s.version++

	switch s.mode {
	case ModeSignIn:
		s.notice = NoticeSignedIn
	case ModeRegister:
		s.register = RegisterBuffer{}
		s.mode = ModeSignIn
		s.errors = ErrorSet{}
		s.reveal = RevealFlags{}
		s.notice = NoticeRegistered
	case ModeResetRequest:
		s.reset = ResetBuffer{}
		s.notice = NoticeResetSent
	}
	return s, nil
}

func (s State) payload() Payload {
	switch s.mode {
	case ModeRegister:
		return s.register
	case ModeResetRequest:
		return s.reset
	default:
		return s.signIn
	}
}
