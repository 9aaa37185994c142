// Package transport delivers messages through an external channel. The
// pipeline depends only on the Transport contract; the SMTP adapter is
// the production implementation.
package transport

import (
	"context"
	"time"

	"github.com/pikad/herald/internal/message"
)

// Receipt is the delivery acknowledgement for one accepted message.
type Receipt struct {
	MessageID string    `json:"message_id"`
	Accepted  time.Time `json:"accepted"`
}

// Error is a transport failure. Single sends abort on it; batch sends
// capture it per recipient.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return "transport failure: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport is the delivery contract consumed by the pipeline.
type Transport interface {
	// Send delivers one message and returns a receipt with the
	// transport-assigned message ID.
	Send(ctx context.Context, msg *message.Message) (*Receipt, error)

	// VerifyConnection checks that the channel is reachable without
	// sending anything.
	VerifyConnection(ctx context.Context) error
}
