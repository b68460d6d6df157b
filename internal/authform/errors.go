package authform

import (
	"errors"
	"maps"
	"slices"
)

// Sentinel errors for misuse of the controller. Field validation problems are
// never reported through these; they live in ErrorSet.
var (
	ErrUnknownMode       = errors.New("unknown form mode")
	ErrUnknownField      = errors.New("unknown form field")
	ErrFieldNotInMode    = errors.New("field does not belong to the active mode")
	ErrSubmitPending     = errors.New("a submission is already pending")
	ErrStaleResolution   = errors.New("submission result is stale")
	ErrInvalidTransition = errors.New("invalid submission status transition")
	ErrClosed            = errors.New("form controller is closed")
)

// DefaultFailureMessage is shown when a submission fails for a reason the
// submitter did not phrase for the user.
const DefaultFailureMessage = "Something went wrong. Please try again."

// ErrorSet maps a field key to the message displayed next to it. A missing
// key means the field is currently valid.
type ErrorSet map[string]string

// Has reports whether field currently has an error.
func (e ErrorSet) Has(field Field) bool {
	_, ok := e[string(field)]
	return ok
}

// Get returns the message for field, or "" when it is valid.
func (e ErrorSet) Get(field Field) string {
	return e[string(field)]
}

// Empty reports whether the set signals a fully valid form.
func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

// Keys returns the invalid field keys in sorted order.
func (e ErrorSet) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// Clone returns an independent copy. A nil set clones to an empty one.
func (e ErrorSet) Clone() ErrorSet {
	out := make(ErrorSet, len(e))
	maps.Copy(out, e)
	return out
}

// RejectedError is returned by a Submitter when the backend refused the
// request for a reason the user should see verbatim.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "submission rejected: " + e.Reason
}

// Reject builds a RejectedError.
func Reject(reason string) error {
	return &RejectedError{Reason: reason}
}

// FailureMessage turns a submission error into the single message shown
// above the form.
func FailureMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Reason != "" {
		return rejected.Reason
	}
	return DefaultFailureMessage
}
