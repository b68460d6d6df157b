package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/authpanel/internal/config"
)

var (
	logLevel    string
	logFormat   string
	authBackend string
	submitDelay time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "authpanel",
	Short: "Sign-in, registration and password reset form in the terminal",
	Long: `authpanel drives the sign-in / register / reset-password form from the
command line.

Available commands:
  run        Start an interactive form session
  check      Validate one form from flags and print its errors as JSON
  version    Print the version number

Settings are read from the environment and an optional .env file; the
global flags below override them.

Use "authpanel [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (LOG_LEVEL)")
	flags.StringVar(&logFormat, "log-format", "", "log format: text or json (LOG_FORMAT)")
	flags.StringVar(&authBackend, "backend", "", "submission backend: stub or memory (AUTH_BACKEND)")
	flags.DurationVar(&submitDelay, "delay", 0, "stub backend response time (SUBMIT_DELAY)")
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("backend") {
		cfg.AuthBackend = authBackend
	}
	if flags.Changed("delay") {
		cfg.SubmitDelay = submitDelay
	}
	return cfg, cfg.Validate()
}
