package worker

// cache_worker.go
// Processes cache invalidation jobs from QueueCache. Any catalog write
// (product create/update/delete, stock movement, price change) enqueues one
// of these; the worker drops every Redis key the write could have staled.

import (
	"context"
	"encoding/json"

	"korecatalog/internal/infra"
	"korecatalog/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CacheWorker drops cached reads staled by a catalog write.
type CacheWorker struct {
	rdb   *redis.Client
	users repository.UserRepository
}

func NewCacheWorker(rdb *redis.Client, users repository.UserRepository) *CacheWorker {
	return &CacheWorker{rdb: rdb, users: users}
}

func (w *CacheWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CachePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cache_worker: invalid payload")
		return nil
	}

	keys := []string{
		infra.DashboardCacheKey(payload.UserID),
		infra.CatalogCacheKey(""),
	}
	if payload.ProductID != "" {
		keys = append(keys, infra.CatalogProductCacheKey(payload.ProductID))
	}

	// The per-owner catalog listing is keyed by username, which the write
	// path doesn't carry — resolve it here.
	if uid, err := uuid.Parse(payload.UserID); err == nil {
		if user, err := w.users.FindByID(ctx, uid); err == nil {
			keys = append(keys, infra.CatalogCacheKey(user.Username))
		}
	}

	if err := w.rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	log.Debug().Strs("keys", keys).Msg("cache_worker: invalidated")
	return nil
}
