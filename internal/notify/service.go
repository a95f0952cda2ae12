package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/tiagobr21/ecommerce-orcou-back/internal/kafka"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/redisx"
)

type userDirectory interface {
	EmailByID(ctx context.Context, id int64) (string, error)
}

type confirmationMailer interface {
	SendOrderConfirmation(to, orderID string, totalCents int, lines []orders.PlacedLine) error
}

type dedupStore interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// RedisDedup remembers processed event ids with a TTL.
type RedisDedup struct{ Redis *redis.Client }

func (d *RedisDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyDedup, "notifier", eventID)
	return redisx.Exists(ctx, d.Redis, key)
}

func (d *RedisDedup) Mark(ctx context.Context, eventID string) error {
	key := fmt.Sprintf(redisx.KeyDedup, "notifier", eventID)
	return d.Redis.Set(ctx, key, "1", redisx.TTLDedup).Err()
}

// Service turns order.committed events into confirmation emails.
type Service struct {
	Users  userDirectory
	Mailer confirmationMailer
	Dedup  dedupStore
}

// HandleOrderCommitted is the consumer handler. Returning an error keeps the
// offset uncommitted so the message is retried.
func (s *Service) HandleOrderCommitted(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCommitted {
		return nil
	}

	// Dedup on event_id: a redelivered event must not mail twice.
	if seen, _ := s.Dedup.Seen(ctx, env.EventID); seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCommittedPayload](env.Payload)
	if err != nil {
		return err
	}

	to, err := s.Users.EmailByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if err := s.Mailer.SendOrderConfirmation(to, p.OrderID, p.TotalCents, p.Lines); err != nil {
		return err
	}
	if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
		log.Printf("dedup mark for %s failed: %v", env.EventID, err)
	}
	return nil
}
