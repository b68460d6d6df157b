package authform

import "strings"

// Snapshot is the read-only view of a State consumed by renderers. Password
// values are masked unless their reveal flag is set.
type Snapshot struct {
	Version     uint64            `json:"version"`
	Mode        Mode              `json:"mode"`
	Title       string            `json:"title"`
	Status      SubmissionStatus  `json:"status"`
	Fields      map[string]string `json:"fields"`
	Terms       *bool             `json:"terms,omitempty"`
	Errors      ErrorSet          `json:"errors"`
	Reveal      RevealFlags       `json:"reveal"`
	Notice      string            `json:"notice,omitempty"`
	SubmitError string            `json:"submitError,omitempty"`
	CanSubmit   bool              `json:"canSubmit"`
}

// Snapshot renders s for display.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Version:     s.version,
		Mode:        s.mode,
		Title:       s.mode.Title(),
		Status:      s.status,
		Fields:      make(map[string]string, len(s.mode.Fields())),
		Errors:      s.errors.Clone(),
		Reveal:      s.reveal,
		Notice:      s.notice,
		SubmitError: s.submitErr,
		CanSubmit:   s.CanSubmit(),
	}

	for _, f := range s.mode.Fields() {
		value := s.Value(f)
		switch {
		case f == FieldPassword && !s.reveal.Password,
			f == FieldConfirmPassword && !s.reveal.ConfirmPassword:
			value = mask(value)
		}
		snap.Fields[string(f)] = value
	}

	if s.mode == ModeRegister {
		accepted := s.register.TermsAccepted
		snap.Terms = &accepted
	}
	return snap
}

func mask(v string) string {
	return strings.Repeat("•", len([]rune(v)))
}
