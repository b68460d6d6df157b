package authform

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// SubmissionStatus tracks the submit button of the active form.
type SubmissionStatus string

const (
	StatusIdle      SubmissionStatus = "idle"
	StatusPending   SubmissionStatus = "pending"
	StatusSucceeded SubmissionStatus = "succeeded"
	StatusFailed    SubmissionStatus = "failed"
)

// Status events.
const (
	eventSubmit  = "submit"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventReset   = "reset"
)

var statusEvents = fsm.Events{
	{Name: eventSubmit, Src: []string{string(StatusIdle), string(StatusSucceeded), string(StatusFailed)}, Dst: string(StatusPending)},
	{Name: eventSucceed, Src: []string{string(StatusPending)}, Dst: string(StatusSucceeded)},
	{Name: eventFail, Src: []string{string(StatusPending)}, Dst: string(StatusFailed)},
	{Name: eventReset, Src: []string{string(StatusIdle), string(StatusPending), string(StatusSucceeded), string(StatusFailed)}, Dst: string(StatusIdle)},
}

// next returns the status reached by applying event to s. A short-lived
// machine is created per call because looplab/fsm keeps its own current
// state, while State is a value that must not share it.
func (s SubmissionStatus) next(event string) (SubmissionStatus, error) {
	machine := fsm.NewFSM(string(s), statusEvents, nil)

	if err := machine.Event(context.Background(), event); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return s, nil
		}
		return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, s)
	}
	return SubmissionStatus(machine.Current()), nil
}

// reset is accepted from every status.
func (s SubmissionStatus) reset() SubmissionStatus {
	idle, _ := s.next(eventReset)
	return idle
}
