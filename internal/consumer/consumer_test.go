package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/logging"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settled struct {
	acked    bool
	nacked   bool
	requeued bool
}

// fakeAcker records how a delivery was settled.
type fakeAcker struct {
	mu  sync.Mutex
	got settled
	hit chan struct{}
}

func newAcker() *fakeAcker {
	return &fakeAcker{hit: make(chan struct{}, 8)}
}

func (a *fakeAcker) Ack(uint64, bool) error {
	a.mu.Lock()
	a.got.acked = true
	a.mu.Unlock()
	a.hit <- struct{}{}
	return nil
}

func (a *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	a.got.nacked = true
	a.got.requeued = requeue
	a.mu.Unlock()
	a.hit <- struct{}{}
	return nil
}

func (a *fakeAcker) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

func (a *fakeAcker) result() settled {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.got
}

func delivery(a *fakeAcker, body string, redelivered bool) amqp.Delivery {
	return amqp.Delivery{Acknowledger: a, Body: []byte(body), Redelivered: redelivered}
}

func stockEvent(body string) amqp.Delivery {
	d := delivery(newAcker(), body, false)
	d.RoutingKey = rabbitmq.RoutingWarehouseStock
	return d
}

type mockSender struct {
	sendFn func(to, subject, body string) error
}

func (m *mockSender) Send(to, subject, body string) error {
	return m.sendFn(to, subject, body)
}

type mockCascader struct {
	onChangedFn func(ctx context.Context, productID uint) (*service.CascadeResult, error)
}

func (m *mockCascader) OnProductStockChanged(ctx context.Context, productID uint) (*service.CascadeResult, error) {
	return m.onChangedFn(ctx, productID)
}

func TestNotificationConsumer_Delivers(t *testing.T) {
	var to, subject string
	c := NewNotificationConsumer(&mockSender{sendFn: func(addr, subj, _ string) error {
		to, subject = addr, subj
		return nil
	}}, logging.Discard())

	a := newAcker()
	out := c.handle(context.Background(), delivery(a, `{"to":"front@makkah.example","subject":"Booking confirmed","body":"ok"}`, false))

	assert.Equal(t, ack, out)
	assert.Equal(t, "front@makkah.example", to)
	assert.Equal(t, "Booking confirmed", subject)
}

func TestNotificationConsumer_MalformedPayload(t *testing.T) {
	c := NewNotificationConsumer(&mockSender{sendFn: func(string, string, string) error {
		t.Fatal("mailer must not be called")
		return nil
	}}, logging.Discard())

	assert.Equal(t, drop, c.handle(context.Background(), delivery(newAcker(), `not json`, false)))
	assert.Equal(t, drop, c.handle(context.Background(), delivery(newAcker(), `{"subject":"x"}`, false)))
}

func TestNotificationConsumer_SMTPFailureRetries(t *testing.T) {
	c := NewNotificationConsumer(&mockSender{sendFn: func(string, string, string) error {
		return errors.New("connection refused")
	}}, logging.Discard())

	out := c.handle(context.Background(), delivery(newAcker(), `{"to":"a@b.example","subject":"s","body":"b"}`, false))
	assert.Equal(t, retry, out)
}

func TestWarehouseConsumer_Cascades(t *testing.T) {
	var got uint
	c := NewWarehouseConsumer(&mockCascader{onChangedFn: func(_ context.Context, id uint) (*service.CascadeResult, error) {
		got = id
		return &service.CascadeResult{Foods: []uint{1}, Menus: []uint{2}}, nil
	}}, logging.Discard())

	out := c.handle(context.Background(), stockEvent(`{"product_id":7}`))

	assert.Equal(t, ack, out)
	assert.Equal(t, uint(7), got)
}

func TestWarehouseConsumer_IgnoresOtherKeys(t *testing.T) {
	c := NewWarehouseConsumer(&mockCascader{onChangedFn: func(context.Context, uint) (*service.CascadeResult, error) {
		t.Fatal("cascade must not run")
		return nil, nil
	}}, logging.Discard())

	d := delivery(newAcker(), `{"product_id":7}`, false)
	d.RoutingKey = "warehouse.price_list"

	assert.Equal(t, ack, c.handle(context.Background(), d))
}

func TestWarehouseConsumer_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want outcome
	}{
		{"malformed", `{"product_id":"x"}`, nil, drop},
		{"missing product id", `{}`, nil, drop},
		{"unknown product", `{"product_id":3}`, service.ErrProductNotFound, drop},
		{"database error", `{"product_id":3}`, errors.New("deadlock detected"), retry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWarehouseConsumer(&mockCascader{onChangedFn: func(context.Context, uint) (*service.CascadeResult, error) {
				return nil, tt.err
			}}, logging.Discard())
			assert.Equal(t, tt.want, c.handle(context.Background(), stockEvent(tt.body)))
		})
	}
}

func TestSettle(t *testing.T) {
	log := logging.Discard().WithField("consumer", "test")
	tests := []struct {
		name        string
		out         outcome
		redelivered bool
		want        settled
	}{
		{"ack", ack, false, settled{acked: true}},
		{"first failure is requeued", retry, false, settled{nacked: true, requeued: true}},
		{"second failure is dropped", retry, true, settled{nacked: true}},
		{"drop", drop, false, settled{nacked: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAcker()
			settle(log, delivery(a, "", tt.redelivered), tt.out)
			assert.Equal(t, tt.want, a.result())
		})
	}
}

func TestRun_StopsWhenChannelCloses(t *testing.T) {
	msgs := make(chan amqp.Delivery, 2)
	a := newAcker()
	msgs <- delivery(a, `{"to":"a@b.example","subject":"s","body":"b"}`, false)
	msgs <- delivery(a, `{"to":"c@d.example","subject":"s","body":"b"}`, false)
	close(msgs)

	c := NewNotificationConsumer(&mockSender{sendFn: func(string, string, string) error { return nil }}, logging.Discard())
	c.Start(context.Background(), msgs)

	for range 2 {
		select {
		case <-a.hit:
		case <-time.After(2 * time.Second):
			require.FailNow(t, "message was not settled")
		}
	}
	assert.True(t, a.result().acked)
}
