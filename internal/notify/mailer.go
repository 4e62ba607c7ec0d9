package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"jobalert/internal/domain"
	"jobalert/internal/secrets"

	"github.com/wneessen/go-mail"
)

// Notifier delivers one notification for a batch of new postings.
type Notifier interface {
	Notify(ctx context.Context, fresh []domain.JobPosting) error
}

// Mailer sends an HTML digest over authenticated SMTP submission with
// STARTTLS. Missing sender/credential/recipient makes Notify a no-op error
// rather than a crash; the run's persistence must not depend on mail config.
type Mailer struct {
	Host string
	Port int
	From string
	To   string

	// lookupPassword is swappable for tests.
	lookupPassword func(account string) (string, error)
}

func NewMailer(host string, port int, from, to string) *Mailer {
	return &Mailer{
		Host:           host,
		Port:           port,
		From:           from,
		To:             to,
		lookupPassword: secrets.GetSMTPPassword,
	}
}

func (m *Mailer) Notify(ctx context.Context, fresh []domain.JobPosting) error {
	if strings.TrimSpace(m.From) == "" {
		return errors.New("missing sender address (mail.from / EMAIL_ADDRESS)")
	}
	if strings.TrimSpace(m.To) == "" {
		return errors.New("missing recipient address (mail.to / NOTIFY_EMAIL)")
	}

	pass, err := m.lookupPassword(secrets.SMTPKeyringAccount(m.From, m.Host))
	if err != nil {
		return fmt.Errorf("missing sender credential: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf("%d new job posting(s) found", len(fresh)))

	body, err := RenderBody(fresh)
	if err != nil {
		return fmt.Errorf("render body: %w", err)
	}
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(m.Host,
		mail.WithPort(m.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.From),
		mail.WithPassword(pass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	log.Printf("[notify] sending %d posting(s) to %s via %s:%d", len(fresh), m.To, m.Host, m.Port)
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
