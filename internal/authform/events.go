package authform

import "fmt"

// Event is a discrete input to the form: a user action or the resolution of
// a pending submission.
type Event interface {
	apply(s State, v *Validator) (State, *Submission, error)
}

// SwitchModeEvent asks for another form to be shown.
type SwitchModeEvent struct {
	Target Mode
}

// EditFieldEvent replaces the text of one input.
type EditFieldEvent struct {
	Field Field
	Value string
}

// SetTermsEvent ticks or clears the registration agreement.
type SetTermsEvent struct {
	Accepted bool
}

// ToggleRevealEvent flips a password visibility toggle.
type ToggleRevealEvent struct {
	Target Reveal
}

// SubmitEvent validates and, if valid, submits the active form.
type SubmitEvent struct{}

// ResolveEvent delivers the outcome of a submission.
type ResolveEvent struct {
	Resolution
}

func (e SwitchModeEvent) apply(s State, _ *Validator) (State, *Submission, error) {
	next, err := s.SwitchMode(e.Target)
	return next, nil, err
}

func (e EditFieldEvent) apply(s State, _ *Validator) (State, *Submission, error) {
	next, err := s.EditField(e.Field, e.Value)
	return next, nil, err
}

func (e SetTermsEvent) apply(s State, _ *Validator) (State, *Submission, error) {
	next, err := s.SetTerms(e.Accepted)
	return next, nil, err
}

func (e ToggleRevealEvent) apply(s State, _ *Validator) (State, *Submission, error) {
	next, err := s.ToggleReveal(e.Target)
	return next, nil, err
}

func (SubmitEvent) apply(s State, v *Validator) (State, *Submission, error) {
	return s.Submit(v)
}

func (e ResolveEvent) apply(s State, _ *Validator) (State, *Submission, error) {
	next, err := s.Resolve(e.Resolution)
	return next, nil, err
}

// Apply is the form's transition function. It never mutates s. On error the
// returned State equals s. A non-nil Submission must be handed to a
// Submitter and its outcome fed back as a ResolveEvent.
func Apply(s State, ev Event, v *Validator) (State, *Submission, error) {
	if ev == nil {
		return s, nil, fmt.Errorf("authform: nil event")
	}
	next, sub, err := ev.apply(s, v)
	if err != nil {
		return s, nil, err
	}
	return next, sub, nil
}
