package authflow

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// SMTPConfig carries the connection settings for the SMTP notifier.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPNotifier delivers messages over SMTP with STARTTLS when the server
// offers it.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger Logger
}

// NewSMTPNotifier validates the config and builds the notifier.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.From = strings.TrimSpace(cfg.From)

	if cfg.Host == "" || cfg.From == "" {
		return nil, goerrors.New("smtp host and from address are required", goerrors.CategoryValidation)
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}

	return &SMTPNotifier{cfg: cfg, logger: defLogger{}}, nil
}

// WithLogger overrides the logger used by the notifier.
func (n *SMTPNotifier) WithLogger(logger Logger) *SMTPNotifier {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// Deliver sends a single plain-text message. Failures surface to the caller
// as transient errors.
func (n *SMTPNotifier) Deliver(ctx context.Context, address, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "context cancelled during mail delivery")
	}

	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	}

	msg := buildMessage(n.cfg.From, address, subject, body)
	addr := n.cfg.Host + ":" + n.cfg.Port

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{address}, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "smtp delivery failed").
			WithMetadata(map[string]any{"host": n.cfg.Host})
	}

	n.logger.Debug("mail delivered", "to", address, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

var _ Notifier = (*SMTPNotifier)(nil)

// LogNotifier writes messages to the logger instead of delivering them.
// Meant for local development.
type LogNotifier struct {
	Logger Logger
}

func (n LogNotifier) Deliver(_ context.Context, address, subject, body string) error {
	logger := n.Logger
	if logger == nil {
		logger = defLogger{}
	}
	logger.Info("notification (not delivered)", "to", address, "subject", subject, "body", body)
	return nil
}

var _ Notifier = LogNotifier{}
