package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"egresados/pkg/logger"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes mails to the log. Used when no SMTP host is configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	logger.Info("Mail to %s: %s\n%s", to, subject, body)
	return nil
}

type SMTPMailer struct {
	host    string
	from    string
	options []gomail.Option
	send    func(ctx context.Context, host string, options []gomail.Option, msg *gomail.Msg) error
}

// NewSMTPMailer sends through host:port, upgrading to TLS when the server offers it.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	options := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if user != "" {
		options = append(options,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(pass),
		)
	}
	return &SMTPMailer{
		host:    host,
		from:    from,
		options: options,
		send:    dialAndSend,
	}
}

func dialAndSend(ctx context.Context, host string, options []gomail.Option, msg *gomail.Msg) error {
	client, err := gomail.NewClient(host, options...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := buildMessage(m.from, to, subject, body)
	if err != nil {
		return err
	}
	return m.send(ctx, m.host, m.options, msg)
}

func buildMessage(from, to, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}
