package ports

import "context"

// Mail is one outbound HTML email.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a single email synchronously.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// MailQueue accepts mail for asynchronous delivery. Delivery failures are
// logged by the queue and never reach the caller.
type MailQueue interface {
	Enqueue(m Mail)
}
