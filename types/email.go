package types

import "context"

// Mailer delivers one notification through an outbound relay.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
	Provider() string
}

// Notification is a rendered email ready for the relay.
type Notification struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}
