package notification

import "context"

// Email is a rendered outbound message.
type Email struct {
	To         []string
	CC         []string
	Subject    string
	HTMLBody   string
	TextBody   string
	MessageID  string
	InReplyTo  string
	References []string
}

// Sender delivers rendered mail. Implementations retry transient failures.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
