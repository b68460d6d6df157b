package domain

import "context"

// Email is a single outgoing HTML message.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

// EmailSender delivers account emails such as password reset links. This
// allows for different implementations (logging, an on-disk outbox).
type EmailSender interface {
	Send(ctx context.Context, msg Email) error
}
