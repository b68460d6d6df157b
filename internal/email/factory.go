package email

import (
	"fmt"
	"log/slog"

	"github.com/nfrund/authpanel/internal/config"
	"github.com/nfrund/authpanel/internal/domain"
	"github.com/nfrund/authpanel/internal/storage"
)

// NewEmailService creates and returns an email sender based on the
// configuration. store is only used by the outbox provider.
func NewEmailService(cfg config.Provider, store storage.Store, logger *slog.Logger) (domain.EmailSender, error) {
	switch cfg.GetEmailProvider() {
	case "log":
		return NewLogSender(cfg.GetEmailSender(), logger), nil
	case "outbox":
		if store == nil {
			return nil, fmt.Errorf("email provider is 'outbox' but no storage is configured")
		}
		return NewOutboxSender(store, ".", cfg.GetEmailSender(), logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.GetEmailProvider())
	}
}
