package worker

// retry_cron.go
// Background goroutine that periodically drains the dead letter queues and
// re-enqueues entries that still have retry budget left. Entries past the
// budget stay parked for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10

	// MaxDLQRequeues caps how many times a dead-lettered job is put back on
	// its original queue before it is left parked permanently.
	MaxDLQRequeues = 2
)

// StartRetryCron launches a background goroutine that ticks every few minutes
// and gives dead-lettered jobs another chance. Respects ctx for shutdown.
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
				for _, queue := range []string{QueueReporte, QueueEmail} {
					requeueFromDLQ(ctx, rdb, queue)
				}
			}
		}
	}()
}

func requeueFromDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue

	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err == redis.Nil {
			return // queue drained
		}
		if err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: failed to pop DLQ entry")
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: corrupt DLQ entry, dropping")
			continue
		}

		if entry.Requeues >= MaxDLQRequeues {
			// Out of budget — park it back at the head and stop scanning,
			// the rest of the list is at least as old.
			if err := rdb.LPush(ctx, dlqKey, raw).Err(); err != nil {
				log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: failed to park DLQ entry")
			}
			return
		}

		entry.Requeues++
		job := Job{Type: entry.JobType, Payload: entry.Payload, Requeues: entry.Requeues}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to marshal job")
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("retry_cron: failed to requeue job")
			// Put the entry back so it is not lost.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			return
		}

		log.Info().
			Str("queue", entry.OriginalQueue).
			Str("job_type", entry.JobType).
			Int("requeues", entry.Requeues).
			Msg("retry_cron: dead-lettered job re-enqueued")
	}
}
