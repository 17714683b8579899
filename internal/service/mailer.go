package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pjansen/microblog/internal/domain"
	mail "github.com/wneessen/go-mail"
)

// deliverTimeout bounds a single delivery attempt, including connection setup.
const deliverTimeout = 30 * time.Second

// MailTransport performs a single delivery attempt for one message.
type MailTransport interface {
	Deliver(ctx context.Context, email *domain.Email) error
}

// MailDispatcher implements domain.Mailer with a bounded queue consumed by a
// fixed pool of workers. Callers never wait for delivery; when the queue is
// full the message is dropped and logged. Email here is best-effort
// notification, not a guaranteed-delivery channel.
type MailDispatcher struct {
	transport MailTransport
	queue     chan *domain.Email
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewMailDispatcher creates a dispatcher with the given worker count and
// queue capacity and starts its workers.
func NewMailDispatcher(transport MailTransport, workers, queueSize int) *MailDispatcher {
	d := &MailDispatcher{
		transport: transport,
		queue:     make(chan *domain.Email, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Send enqueues the email for delivery and returns immediately. Delivery
// failures are logged by the workers and never surfaced to the caller.
func (d *MailDispatcher) Send(email *domain.Email) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		slog.Warn("mail dispatcher closed, dropping message", "subject", email.Subject)
		return
	}

	select {
	case d.queue <- email:
	default:
		slog.Warn("mail queue full, dropping message",
			"subject", email.Subject, "to", strings.Join(email.To, ","))
	}
}

// Close stops accepting new mail, drains the queue, and waits for the
// workers to finish in-flight deliveries.
func (d *MailDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *MailDispatcher) worker() {
	defer d.wg.Done()

	for email := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		err := d.transport.Deliver(ctx, email)
		cancel()

		if err != nil {
			slog.Error("deliver mail", "error", err,
				"subject", email.Subject, "to", strings.Join(email.To, ","))
			continue
		}
		slog.Info("mail delivered",
			"subject", email.Subject, "to", strings.Join(email.To, ","))
	}
}

// SMTPTransport delivers mail over SMTP.
type SMTPTransport struct {
	client *mail.Client
}

// NewSMTPTransport creates an SMTP transport for the given server. Plain
// authentication is configured only when a username is provided.
func NewSMTPTransport(host string, port int, username, password string) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPTransport{client: client}, nil
}

// Deliver sends one message over SMTP, dialing per delivery.
func (t *SMTPTransport) Deliver(ctx context.Context, email *domain.Email) error {
	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
	if email.HTMLBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTMLBody)
	}

	return t.client.DialAndSendWithContext(ctx, msg)
}
