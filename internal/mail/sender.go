package mail

import "context"

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message. Implementations: Resend for production,
// LogSender when no API key is configured.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
