// Package mailer delivers HTML email through an SMTP relay.
package mailer

import (
	"context"
	"errors"
)

// ErrVerify wraps failures to reach or authenticate with the relay.
var ErrVerify = errors.New("smtp relay verification failed")

type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
