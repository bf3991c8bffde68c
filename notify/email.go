package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const emailSubject = "Parking reservations"

// Email sends notifications as plain-text emails through SendGrid.
type Email struct {
	client *sendgrid.Client
	from   string
	to     string
}

func NewEmail(apiKey, from, to string) *Email {
	return &Email{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (e *Email) Send(ctx context.Context, text string) error {
	from := mail.NewEmail("Parking", e.from)
	to := mail.NewEmail("", e.to)
	message := mail.NewSingleEmail(from, emailSubject, to, text, "")

	resp, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: sendgrid returned %d", resp.StatusCode)
	}
	return nil
}

// Sender is implemented by every notification target.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Fanout sends each notification to every configured target and returns the
// first error.
type Fanout []Sender

func (f Fanout) Send(ctx context.Context, text string) error {
	var first error
	for _, n := range f {
		if err := n.Send(ctx, text); err != nil && first == nil {
			first = err
		}
	}
	return first
}
