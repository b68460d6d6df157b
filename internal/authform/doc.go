// Package authform implements the sign-in / register / password-reset form
// as a state machine.
//
// State is an immutable value and Apply is its transition function, so the
// form can be driven and tested without any renderer. Controller wraps a
// State for interactive use: it serializes events, runs valid submissions
// through a Submitter in the background and drops results that arrive after
// the user has moved on. A submission is identified by a token that only
// ever increases; a result is applied only while its token and mode are
// still the outstanding ones.
package authform
