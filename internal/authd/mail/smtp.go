// Package mail provides outbound email delivery for account notifications.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the connection settings for an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers mail through an SMTP relay using go-mail. A new
// connection is dialed per message; volume here is a handful of reset
// mails, not a campaign.
type SMTPNotifier struct {
	cfg    SMTPConfig
	client *gomail.Client
	logger *slog.Logger
}

// NewSMTPNotifier builds a notifier for the given relay. Authentication is
// enabled only when a username is configured, so local debug relays such as
// mailpit work without credentials.
func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: create smtp client: %w", err)
	}

	return &SMTPNotifier{
		cfg:    cfg,
		client: client,
		logger: logger,
	}, nil
}

// Send delivers a single plain-text message. The context bounds the dial
// and the SMTP conversation.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("mail: set sender %q: %w", n.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: set recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send to %q: %w", to, err)
	}

	n.logger.Debug("mail delivered",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
