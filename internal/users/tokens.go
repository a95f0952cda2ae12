package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/redisx"
)

// ResetTokens holds one-time password reset tokens. Redis gives the TTL for
// free; Postgres stays out of it because tokens are throwaway state.
type ResetTokens struct{ Redis *redis.Client }

func (t *ResetTokens) Save(ctx context.Context, token, email string) error {
	key := fmt.Sprintf(redisx.KeyPasswordReset, token)
	return t.Redis.Set(ctx, key, email, redisx.TTLPasswordReset).Err()
}

// Consume returns the email the token was issued for and deletes it so the
// token works exactly once.
func (t *ResetTokens) Consume(ctx context.Context, token string) (string, error) {
	key := fmt.Sprintf(redisx.KeyPasswordReset, token)
	email, err := t.Redis.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrBadResetToken
	}
	if err != nil {
		return "", err
	}
	return email, nil
}
