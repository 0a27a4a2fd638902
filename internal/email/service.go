package email

import (
	"context"
	"errors"
)

var ErrMailerDisabled = errors.New("mailer disabled")

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Disabled is used when no SMTP host is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) error {
	return ErrMailerDisabled
}
