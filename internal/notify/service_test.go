package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
)

type fakeDirectory struct {
	emails map[int64]string
}

func (d *fakeDirectory) EmailByID(_ context.Context, id int64) (string, error) {
	e, ok := d.emails[id]
	if !ok {
		return "", errors.New("no such user")
	}
	return e, nil
}

type sentMail struct {
	to         string
	orderID    string
	totalCents int
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendOrderConfirmation(to, orderID string, totalCents int, _ []orders.PlacedLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, orderID: orderID, totalCents: totalCents})
	return nil
}

type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDedup) Seen(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[eventID], nil
}

func (d *memDedup) Mark(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	d.seen[eventID] = true
	return nil
}

func committedMessage(t *testing.T, eventID string, p orders.OrderCommittedPayload) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	env := orders.Envelope{
		EventID:       eventID,
		EventType:     orders.EventOrderCommitted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "orders-api",
		CorrelationID: p.OrderID,
		Payload:       raw,
	}
	val, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Key: []byte(p.OrderID), Value: val}
}

func TestHandleOrderCommittedSendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{
		Users:  &fakeDirectory{emails: map[int64]string{7: "maria@example.com"}},
		Mailer: mailer,
		Dedup:  &memDedup{},
	}

	orderID := uuid.NewString()
	msg := committedMessage(t, uuid.NewString(), orders.OrderCommittedPayload{
		OrderID:    orderID,
		UserID:     7,
		Lines:      []orders.PlacedLine{{ProductID: uuid.NewString(), Qty: 2, PriceCents: 1500}},
		TotalCents: 3000,
	})

	require.NoError(t, svc.HandleOrderCommitted(context.Background(), msg))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "maria@example.com", mailer.sent[0].to)
	assert.Equal(t, orderID, mailer.sent[0].orderID)
	assert.Equal(t, 3000, mailer.sent[0].totalCents)
}

func TestHandleOrderCommittedSkipsOtherEventTypes(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{
		Users:  &fakeDirectory{emails: map[int64]string{7: "maria@example.com"}},
		Mailer: mailer,
		Dedup:  &memDedup{},
	}

	raw, err := json.Marshal(orders.OrderFailedPayload{OrderID: uuid.NewString(), UserID: 7, Reason: "OUT_OF_STOCK"})
	require.NoError(t, err)
	env := orders.Envelope{
		EventID:      uuid.NewString(),
		EventType:    orders.EventOrderFailed,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Payload:      raw,
	}
	val, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, svc.HandleOrderCommitted(context.Background(), kafkago.Message{Value: val}))
	assert.Empty(t, mailer.sent)
}

func TestHandleOrderCommittedRedeliveryMailsOnce(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{
		Users:  &fakeDirectory{emails: map[int64]string{7: "maria@example.com"}},
		Mailer: mailer,
		Dedup:  &memDedup{},
	}

	msg := committedMessage(t, uuid.NewString(), orders.OrderCommittedPayload{
		OrderID: uuid.NewString(), UserID: 7, TotalCents: 500,
	})

	require.NoError(t, svc.HandleOrderCommitted(context.Background(), msg))
	require.NoError(t, svc.HandleOrderCommitted(context.Background(), msg))
	assert.Len(t, mailer.sent, 1)
}

func TestHandleOrderCommittedMailerFailureRetriable(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	dedup := &memDedup{}
	svc := &Service{
		Users:  &fakeDirectory{emails: map[int64]string{7: "maria@example.com"}},
		Mailer: mailer,
		Dedup:  dedup,
	}

	eventID := uuid.NewString()
	msg := committedMessage(t, eventID, orders.OrderCommittedPayload{
		OrderID: uuid.NewString(), UserID: 7, TotalCents: 500,
	})

	require.Error(t, svc.HandleOrderCommitted(context.Background(), msg))

	// The event was not marked processed, so a retry still goes out.
	mailer.err = nil
	require.NoError(t, svc.HandleOrderCommitted(context.Background(), msg))
	assert.Len(t, mailer.sent, 1)

	seen, err := dedup.Seen(context.Background(), eventID)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestHandleOrderCommittedBadEnvelope(t *testing.T) {
	svc := &Service{Dedup: &memDedup{}}
	err := svc.HandleOrderCommitted(context.Background(), kafkago.Message{Value: []byte("not json")})
	require.Error(t, err)
}
