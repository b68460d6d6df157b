package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfrund/authpanel/internal/app"
	"github.com/nfrund/authpanel/internal/pubsub"
	"github.com/nfrund/authpanel/internal/terminal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive form session",
	Long: `Start an interactive form session on the terminal. The form is printed
after every change; type "help" for the list of commands.

Examples:
  authpanel run                          # stub backend, 1.5s responses
  authpanel run --backend memory         # real accounts for this process
  EMAIL_PROVIDER=outbox authpanel run --backend memory
                                         # reset links written to ./outbox`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, err := a.Controller()
	if err != nil {
		return err
	}
	bus, err := a.Bus()
	if err != nil {
		return err
	}

	session := terminal.NewSession(ctrl, cmd.OutOrStdout(), a.Logger(),
		terminal.WithAccount(func() (string, bool) {
			user, ok := a.SignedIn()
			if !ok {
				return "", false
			}
			return user.Email, true
		}),
	)
	if err := pubsub.Subscribe(ctx, bus, pubsub.FormState, session.HandleSnapshot); err != nil {
		return err
	}

	a.Logger().Debug("Session started", "session", a.SessionID(), "backend", cfg.GetAuthBackend())
	err = session.Run(ctx, cmd.InOrStdin())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(runCmd)
}
