// Package terminal drives an authform.Controller from line commands and
// renders the snapshots it publishes.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nfrund/authpanel/internal/authform"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// ErrSubmitDisabled is returned by the submit command while the submit
// button would be disabled. submit! bypasses it.
var ErrSubmitDisabled = errors.New("submit is disabled")

var labels = map[authform.Field]string{
	authform.FieldFirstName:       "First name",
	authform.FieldLastName:        "Last name",
	authform.FieldEmail:           "Email",
	authform.FieldPassword:        "Password",
	authform.FieldConfirmPassword: "Confirm password",
	authform.FieldTerms:           "Terms",
}

const helpText = `Commands:
  mode <signin|register|reset>   switch form
  set <field> [value]            edit a field (firstName, lastName, email, password, confirmPassword)
  terms <on|off>                 accept or clear the terms (register only)
  reveal <password|confirmPassword>
                                 toggle password visibility
  submit                         submit the form if the button is enabled
  submit!                        submit regardless of the button
  show                           print the form
  wait                           wait for pending submissions
  help                           print this help
  quit                           leave
`

// Session is one interactive terminal bound to a controller.
type Session struct {
	ctrl   *authform.Controller
	out    io.Writer
	logger *slog.Logger

	// account reports who is signed in, if anyone.
	account func() (string, bool)

	mu          sync.Mutex
	lastVersion uint64
	rendered    bool
}

// Option is a function that configures a Session.
type Option func(*Session)

// WithAccount shows the signed-in account under the form. account returns
// false while nobody is signed in.
func WithAccount(account func() (string, bool)) Option {
	return func(s *Session) {
		s.account = account
	}
}

// NewSession creates a Session writing to out.
func NewSession(ctrl *authform.Controller, out io.Writer, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{ctrl: ctrl, out: out, logger: logger.With("component", "terminal")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands from in until it is exhausted, the quit command is
// given or ctx is canceled. Command errors are printed, not returned.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.Render(s.ctrl.Snapshot())
	s.printf("Type \"help\" for commands.\n")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.Exec(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Exec runs a single command line. The value given to set is kept
// verbatim, surrounding spaces included.
func (s *Session) Exec(line string) error {
	cmd, raw, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	cmd = strings.TrimSpace(cmd)
	rest := strings.TrimSpace(raw)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "mode":
		mode, err := authform.ParseMode(rest)
		if err != nil {
			return err
		}
		_, err = s.ctrl.SwitchMode(mode)
		return err
	case "set":
		name, value, _ := strings.Cut(strings.TrimLeft(raw, " "), " ")
		field, err := authform.ParseField(name)
		if err != nil {
			return err
		}
		_, err = s.ctrl.EditField(field, value)
		return err
	case "terms":
		accepted, err := parseSwitch(rest)
		if err != nil {
			return err
		}
		_, err = s.ctrl.SetTerms(accepted)
		return err
	case "reveal":
		_, err := s.ctrl.ToggleReveal(authform.Reveal(rest))
		return err
	case "submit":
		if !s.ctrl.State().CanSubmit() {
			return ErrSubmitDisabled
		}
		_, err := s.ctrl.Submit()
		return err
	case "submit!":
		_, err := s.ctrl.Submit()
		return err
	case "show":
		s.print(s.ctrl.Snapshot())
		return nil
	case "wait":
		s.ctrl.Wait()
		s.Render(s.ctrl.Snapshot())
		return nil
	case "help", "?":
		s.printf("%s", helpText)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

// Render prints snap unless a newer snapshot has already been printed. It
// reports whether anything was written.
func (s *Session) Render(snap authform.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rendered && snap.Version <= s.lastVersion {
		s.logger.Debug("Skipping outdated snapshot", "version", snap.Version, "last", s.lastVersion)
		return false
	}
	s.rendered = true
	s.lastVersion = snap.Version
	io.WriteString(s.out, Format(snap)+s.accountLine())
	return true
}

// HandleSnapshot adapts Render to a bus handler.
func (s *Session) HandleSnapshot(_ context.Context, snap authform.Snapshot) error {
	s.Render(snap)
	return nil
}

func (s *Session) print(snap authform.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.out, Format(snap)+s.accountLine())
}

func (s *Session) accountLine() string {
	if s.account == nil {
		return ""
	}
	if email, ok := s.account(); ok {
		return fmt.Sprintf("  Signed in as %s\n", email)
	}
	return ""
}

func (s *Session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// Format renders a snapshot as plain text.
func Format(snap authform.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n== %s == [%s]\n", snap.Title, snap.Status)

	for _, f := range snap.Mode.Fields() {
		fmt.Fprintf(&b, "  %-17s %s\n", labels[f]+":", snap.Fields[string(f)])
		if msg, ok := snap.Errors[string(f)]; ok {
			fmt.Fprintf(&b, "    ! %s\n", msg)
		}
	}
	if snap.Terms != nil {
		box := "[ ]"
		if *snap.Terms {
			box = "[x]"
		}
		fmt.Fprintf(&b, "  %s I agree to the Terms of Service and Privacy Policy\n", box)
		if msg, ok := snap.Errors[string(authform.FieldTerms)]; ok {
			fmt.Fprintf(&b, "    ! %s\n", msg)
		}
	}

	if snap.Notice != "" {
		fmt.Fprintf(&b, "  * %s\n", snap.Notice)
	}
	if snap.SubmitError != "" {
		fmt.Fprintf(&b, "  x %s\n", snap.SubmitError)
	}

	button := submitLabel(snap)
	if !snap.CanSubmit {
		button += " (disabled)"
	}
	fmt.Fprintf(&b, "  <%s>\n", button)
	return b.String()
}

func submitLabel(snap authform.Snapshot) string {
	if snap.Status == authform.StatusPending {
		return "Please wait..."
	}
	switch snap.Mode {
	case authform.ModeRegister:
		return "Create Account"
	case authform.ModeResetRequest:
		return "Send Reset Link"
	default:
		return "Sign In"
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "true", "1", "":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
