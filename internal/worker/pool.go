package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:lowstock"
	QueueCache    = "jobs:cache"
)

// Job is the generic envelope for all async tasks. Attempts survives the
// DLQ round-trip so a job that keeps failing eventually exhausts its budget
// instead of cycling forever.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// LowStockPayload is enqueued when an outbound movement drops a product's
// balance to or below its alert floor.
type LowStockPayload struct {
	UserID      string `json:"user_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	MinStock    int    `json:"min_stock"`
}

// CachePayload is enqueued after any write that could stale a cached read:
// the owner's dashboard, the public catalog listings, and the product detail.
type CachePayload struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLowStock pushes a low-stock alert job to Redis.
func (d *Dispatcher) EnqueueLowStock(ctx context.Context, payload LowStockPayload) error {
	return d.enqueue(ctx, QueueLowStock, "lowstock", payload)
}

// EnqueueCacheInvalidation pushes a cache invalidation job to Redis.
func (d *Dispatcher) EnqueueCacheInvalidation(ctx context.Context, payload CachePayload) error {
	return d.enqueue(ctx, QueueCache, "cache", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers binds each queue's job type to its processor.
type Handlers struct {
	LowStock *LowStockWorker
	Cache    *CacheWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers Handlers, id int) {
	queues := []string{QueueLowStock, QueueCache}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch job.Type {
	case "lowstock":
		err = handlers.LowStock.Process(ctx, job.Payload)
	case "cache":
		err = handlers.Cache.Process(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
		return
	}

	if err != nil {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts+1)
	}
}
