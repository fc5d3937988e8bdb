// Package notify dispatches credential and reset notices. Delivery is
// best-effort: a failed dispatch is logged and never rolls back or blocks
// the state change that triggered it.
package notify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Templates for outbound notices.
const (
	TemplateSendCredentials = "SendCredentials"
	TemplateResetPassword   = "ResetPassword"
)

// Message is a single outbound notice.
type Message struct {
	Template string
	To       string
	Data     map[string]string
}

// Notifier delivers a message to a recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// dispatchTimeout bounds a single delivery attempt.
const dispatchTimeout = 10 * time.Second

// Dispatch delivers a message in the background. Errors are logged, never
// returned: notification failure must not reverse a state transition.
func Dispatch(notifier Notifier, msg Message) {
	if notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if errSend := notifier.Send(ctx, msg); errSend != nil {
			log.WithFields(log.Fields{
				"template": msg.Template,
				"to":       msg.To,
			}).Warnf("notification dispatch failed: %v", errSend)
		}
	}()
}

// LogNotifier writes notices to the application log instead of sending
// them. Default when no mail transport is configured.
type LogNotifier struct{}

// Send logs the notice.
func (LogNotifier) Send(_ context.Context, msg Message) error {
	log.WithFields(log.Fields{
		"template": msg.Template,
		"to":       msg.To,
	}).Info("notification dispatched")
	return nil
}
