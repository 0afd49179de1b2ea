package mail

import (
	"context"
	"log/slog"
)

// LogNotifier writes mail to the log instead of a relay. It is the fallback
// when no SMTP host is configured, which keeps local development working
// without a mail server; the operator reads the reset link off the console.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	n.logger.Info("mail (log delivery)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
