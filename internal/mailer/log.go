package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogMailer writes messages to the log instead of delivering them. Used in
// development when no relay is configured.
type LogMailer struct {
	log *logrus.Entry
}

func NewLogMailer(log *logrus.Entry) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":       msg.To,
		"reply_to": msg.ReplyTo,
		"subject":  msg.Subject,
		"bytes":    len(msg.HTML),
	}).Info("email not delivered: no SMTP relay configured")
	return nil
}
