package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Dead-letter queue. Jobs that exhaust their retries are wrapped with failure
// metadata and pushed onto "dlq:<queue>" so they can be inspected and
// requeued by hand.

const dlqPrefix = "dlq:"

// DLQEntry wraps a failed job with the reason and time of failure.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	Job      json.RawMessage `json:"job"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
}

func sendToDLQ(ctx context.Context, rdb *redis.Client, queue string, raw []byte, reason string) {
	entry := DLQEntry{
		Queue:    queue,
		Job:      raw,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("dlq: marshal entry")
		return
	}
	if err := rdb.LPush(ctx, dlqPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
	}
}

// RequeueDLQ moves every entry from a queue's DLQ back onto the live queue.
// Returns the number of jobs requeued.
func RequeueDLQ(ctx context.Context, rdb *redis.Client, queue string) (int, error) {
	moved := 0
	for {
		data, err := rdb.RPop(ctx, dlqPrefix+queue).Bytes()
		if err == redis.Nil {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}

		var entry DLQEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: dropping malformed entry")
			continue
		}
		if err := rdb.LPush(ctx, queue, []byte(entry.Job)).Err(); err != nil {
			return moved, err
		}
		moved++
	}
}
