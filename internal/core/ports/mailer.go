package ports

import "context"

// MailMessage is one outbound email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message synchronously. The outbound mail queue wraps
// it with sharded workers.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailEnqueuer hands a message to the outbound queue for asynchronous
// delivery. Enqueue never blocks the caller on delivery.
type MailEnqueuer interface {
	Enqueue(msg MailMessage)
}
