package testutils

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/nfrund/authpanel/internal/config"
)

// testEnv is applied before .env.test so every test starts from the same
// settings regardless of the developer's shell.
var testEnv = map[string]string{
	"LOG_FORMAT":       "text",
	"LOG_LEVEL":        "error",
	"AUTH_BACKEND":     "memory",
	"SUBMIT_DELAY":     "10ms",
	"EMAIL_PROVIDER":   "outbox",
	"EMAIL_SENDER":     "Auth Panel <test@localhost>",
	"EMAIL_OUTBOX_DIR": "outbox",
	"APP_BASE_URL":     "http://localhost:8080",
}

// ConfigForTests sets the test environment, overlays the project's
// .env.test when there is one and returns the resulting configuration.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	for key, value := range testEnv {
		t.Setenv(key, value)
	}

	env, err := godotenv.Read(filepath.Join(projectRoot(t), ".env.test"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("failed to load .env.test file: %v", err)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test configuration is invalid: %v", err)
	}
	return cfg
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// projectRoot finds the directory holding go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()
	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}
}
