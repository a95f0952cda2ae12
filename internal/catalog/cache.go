package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/redisx"
)

// CachedRepo fronts the default listing with a short-lived Redis page cache.
// Postgres stays the source of truth; stale stock for up to a minute is
// acceptable for browsing (checkout re-checks through the ledger).
type CachedRepo struct {
	Repo  *Repo
	Redis *redis.Client
}

func (c *CachedRepo) List(ctx context.Context, page, limit int) (*Page, error) {
	page, limit = Normalize(page, limit)
	key := fmt.Sprintf(redisx.KeyProductPage, page, limit)
	if s, err := c.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		var pg Page
		if json.Unmarshal([]byte(s), &pg) == nil {
			return &pg, nil
		}
	}

	pg, err := c.Repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(pg); err == nil {
		_ = c.Redis.Set(ctx, key, b, redisx.TTLProductPage).Err()
	}
	return pg, nil
}
