package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/logging"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	msgs []any
	err  error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.msgs = append(p.msgs, payload)
	return p.err
}

func TestQueueNotifier_PublishesEmail(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub, logging.Discard())

	n.SendAsync("Booking confirmed", "hotel@example.com", "order 1")
	n.Wait()

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, rabbitmq.RoutingNotificationEmail, pub.keys[0])
	assert.Equal(t, Email{To: "hotel@example.com", Subject: "Booking confirmed", Body: "order 1"}, pub.msgs[0])
}

func TestQueueNotifier_SkipsEmptyRecipient(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub, logging.Discard())

	n.SendAsync("x", "", "y")
	n.Wait()

	assert.Empty(t, pub.msgs)
}

func TestQueueNotifier_PublishErrorIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	n := NewQueueNotifier(pub, logging.Discard())

	assert.NotPanics(t, func() {
		n.SendAsync("x", "a@b.c", "y")
		n.Wait()
	})
}
