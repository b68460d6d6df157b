package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nfrund/authpanel/internal/domain"
	"github.com/nfrund/authpanel/internal/storage"
)

// --- LogSender (for development) ---

// LogSender prints emails to the log instead of sending them.
type LogSender struct {
	senderAddress string
	logger        *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger uses slog.Default.
func NewLogSender(senderAddress string, logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{senderAddress: senderAddress, logger: logger}
}

// Send logs the email content.
func (s *LogSender) Send(ctx context.Context, msg domain.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Email sent (logged)",
		"from", s.senderAddress,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.HTMLBody,
	)
	return nil
}

// --- OutboxSender (for local inspection) ---

// OutboxSender writes every message as an HTML file into a directory of a
// storage.Store, where it can be opened in a browser.
type OutboxSender struct {
	senderAddress string
	dir           string
	store         storage.Store
	now           func() time.Time
	seq           atomic.Uint64
	logger        *slog.Logger
}

// NewOutboxSender creates an OutboxSender writing into dir of store.
func NewOutboxSender(store storage.Store, dir, senderAddress string, logger *slog.Logger) *OutboxSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxSender{
		senderAddress: senderAddress,
		dir:           dir,
		store:         store,
		now:           time.Now,
		logger:        logger,
	}
}

// Send stores msg as <dir>/<timestamp>-<seq>-<recipient>.html.
func (s *OutboxSender) Send(ctx context.Context, msg domain.Email) error {
	name := fmt.Sprintf("%s-%04d-%s.html",
		s.now().UTC().Format("20060102T150405"),
		s.seq.Add(1),
		fileSafe(msg.To),
	)
	p := path.Join(s.dir, name)

	if _, err := s.store.Save(ctx, p, bytes.NewReader(s.render(msg))); err != nil {
		return fmt.Errorf("failed to write email to outbox: %w", err)
	}
	s.logger.InfoContext(ctx, "Email written to outbox", "to", msg.To, "subject", msg.Subject, "path", p)
	return nil
}

func (s *OutboxSender) render(msg domain.Email) []byte {
	var b strings.Builder
	b.WriteString("<!--\n")
	fmt.Fprintf(&b, "From: %s\n", s.senderAddress)
	fmt.Fprintf(&b, "To: %s\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	b.WriteString("-->\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\n")
	return []byte(b.String())
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func fileSafe(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ToLower(s), "_")
	if s == "" {
		return "unknown"
	}
	return s
}
