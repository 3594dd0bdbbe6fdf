package consumer

import (
	"context"
	"encoding/json"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/notify"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/mailer"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// NotificationConsumer delivers queued booking e-mails over SMTP.
type NotificationConsumer struct {
	mail mailer.Sender
	log  *logrus.Logger
}

func NewNotificationConsumer(mail mailer.Sender, log *logrus.Logger) *NotificationConsumer {
	return &NotificationConsumer{mail: mail, log: log}
}

func (c *NotificationConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	run(ctx, "notification", c.log, msgs, c.handle)
}

func (c *NotificationConsumer) handle(_ context.Context, msg amqp.Delivery) outcome {
	var email notify.Email
	if err := json.Unmarshal(msg.Body, &email); err != nil {
		c.log.WithError(err).Warn("malformed notification payload")
		return drop
	}
	if email.To == "" {
		c.log.Warn("notification without recipient")
		return drop
	}

	if err := c.mail.Send(email.To, email.Subject, email.Body); err != nil {
		c.log.WithError(err).WithField("to", email.To).Error("notification not delivered")
		return retry
	}
	c.log.WithFields(logrus.Fields{"to": email.To, "subject": email.Subject}).Info("notification delivered")
	return ack
}
