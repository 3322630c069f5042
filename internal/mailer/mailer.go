package mailer

import "context"

// Sender delivers composed messages through a mail transport.
type Sender interface {
	// Send delivers a message and returns the assigned message ID.
	// Exactly one delivery attempt is made per call.
	Send(ctx context.Context, msg *Message) (*Result, error)
	// Verify checks that the transport is reachable and accepts commands.
	Verify(ctx context.Context) error
}

// Result contains the outcome of a successful delivery attempt.
type Result struct {
	MessageID string
}
