// Package email sends transactional mail. Delivery is best effort: the
// advisory workflow must not fail because the mail provider is down.
package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier delivers user-facing notifications.
type Notifier interface {
	// AdvisoryResponded tells the requester their advisory request has an answer.
	AdvisoryResponded(ctx context.Context, to, name, subject, response string) error
}

// SendgridNotifier sends mail through the SendGrid v3 API.
type SendgridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendgridNotifier creates a notifier sending from the given address.
func NewSendgridNotifier(apiKey, fromAddr string) *SendgridNotifier {
	return &SendgridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("LegalAI RD", fromAddr),
	}
}

// AdvisoryResponded sends the advisory answer to the requester.
func (n *SendgridNotifier) AdvisoryResponded(ctx context.Context, to, name, subject, response string) error {
	body := fmt.Sprintf(`Hello %s,

A legal advisor has responded to your request "%s":

%s

You can review the full exchange from your account page.

LegalAI RD`, name, subject, response)

	msg := mail.NewSingleEmail(n.from, "Your advisory request has been answered", mail.NewEmail(name, to), body, body)
	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send advisory mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send advisory mail: status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier is used when no mail provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) AdvisoryResponded(ctx context.Context, to, name, subject, response string) error {
	return nil
}
