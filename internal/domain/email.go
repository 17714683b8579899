package domain

// Email is an ephemeral outbound message. It is constructed per send and
// never persisted.
type Email struct {
	Subject  string
	From     string
	To       []string
	TextBody string
	HTMLBody string
}

// Mailer hands an email to delivery without waiting for the outcome.
// Implementations must not block the caller on network I/O.
type Mailer interface {
	Send(email *Email)
}
