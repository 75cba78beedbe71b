package worker

// retry_cron.go
// Background goroutine that periodically drains the dead letter queues and
// re-enqueues failed jobs onto their original queue, bumping the attempt
// counter. Jobs that hit MaxJobAttempts are pushed back to the DLQ and left
// there for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// StartRetryCron launches the DLQ drain loop. It respects the context for
// graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, queue := range []string{QueueLowStock, QueueCache} {
					drainDLQ(ctx, rdb, queue)
				}
			}
		}
	}()
}

func drainDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue

	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable — try again next tick
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}

		if entry.Attempts >= MaxJobAttempts {
			// Push back and stop draining this queue: everything behind it
			// is younger and will be at most as exhausted next tick.
			entry.Reason = "max attempts exceeded"
			data, _ := json.Marshal(entry)
			_ = rdb.LPush(ctx, dlqKey, data).Err()
			log.Error().
				Str("queue", queue).
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: job exhausted retries, left in DLQ")
			return
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: re-enqueue failed")
			return
		}

		log.Info().
			Str("queue", queue).
			Str("job_type", entry.JobType).
			Int("attempt", entry.Attempts).
			Msg("retry_cron: job re-enqueued from DLQ")
	}
}
