package authform

import (
	"fmt"
	"strings"
)

// Mode identifies which of the three forms is currently on screen.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeRegister
	ModeResetRequest
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeSignIn, ModeRegister, ModeResetRequest}

// String returns the short name used in logs, snapshots and the CLI.
func (m Mode) String() string {
	switch m {
	case ModeSignIn:
		return "signin"
	case ModeRegister:
		return "register"
	case ModeResetRequest:
		return "reset"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title is the heading shown above the form.
func (m Mode) Title() string {
	switch m {
	case ModeSignIn:
		return "Welcome Back"
	case ModeRegister:
		return "Create Account"
	case ModeResetRequest:
		return "Reset Password"
	default:
		return ""
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= ModeSignIn && m <= ModeResetRequest
}

// Fields returns the editable text fields owned by the mode, in form order.
func (m Mode) Fields() []Field {
	switch m {
	case ModeSignIn:
		return []Field{FieldEmail, FieldPassword}
	case ModeRegister:
		return []Field{FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldConfirmPassword}
	case ModeResetRequest:
		return []Field{FieldEmail}
	default:
		return nil
	}
}

// Owns reports whether field belongs to the mode's buffer.
func (m Mode) Owns(field Field) bool {
	if field == FieldTerms {
		return m == ModeRegister
	}
	for _, f := range m.Fields() {
		if f == field {
			return true
		}
	}
	return false
}

// MarshalText lets modes appear as strings in JSON snapshots.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode converts a user supplied name into a Mode. The names used by the
// original screen ("login", "forgot") are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signin", "sign-in", "login":
		return ModeSignIn, nil
	case "register", "signup":
		return ModeRegister, nil
	case "reset", "forgot", "reset-request":
		return ModeResetRequest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
