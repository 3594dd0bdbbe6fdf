package notify

import (
	"sync"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/rabbitmq"
	"github.com/sirupsen/logrus"
)

// Email is the payload of a notification.email message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends messages without blocking the caller.
type Notifier interface {
	SendAsync(subject, recipient, body string)
}

type Publisher interface {
	Publish(routingKey string, payload any) error
}

// QueueNotifier hands e-mails to the broker; the notification consumer
// delivers them.
type QueueNotifier struct {
	pub Publisher
	log *logrus.Logger
	wg  sync.WaitGroup
}

func NewQueueNotifier(pub Publisher, log *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{pub: pub, log: log}
}

func (n *QueueNotifier) SendAsync(subject, recipient, body string) {
	if recipient == "" {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		msg := Email{To: recipient, Subject: subject, Body: body}
		if err := n.pub.Publish(rabbitmq.RoutingNotificationEmail, msg); err != nil {
			n.log.WithError(err).WithField("to", recipient).Warn("notification not queued")
		}
	}()
}

// Wait blocks until every pending send has been handed over.
func (n *QueueNotifier) Wait() {
	n.wg.Wait()
}

// Noop drops every message.
type Noop struct{}

func (Noop) SendAsync(string, string, string) {}
