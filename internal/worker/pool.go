package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Job queue ─────────────────────────────────────────────────────────────────
// Background jobs ride Redis lists. Producers LPUSH a JSON envelope onto the
// queue for their job type; workers BRPOP across all queues and route the
// payload to the matching handler. Jobs that keep failing land in a
// dead-letter list (see dlq.go) instead of blocking the queue.

const (
	QueueAlerts   = "jobs:alerts"   // low-stock alert emails
	QueueReceipts = "jobs:receipts" // sale receipt generation + delivery
)

// Job is the envelope every queue entry uses.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Dispatcher enqueues background jobs from the service layer. Services depend
// on this instead of touching Redis directly.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: raw, EnqueuedAt: time.Now().UTC()}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, data).Err()
}

// alertDedupKey is the once-per-day marker shared by every alert producer
// (threshold-crossing enqueues and the periodic scan).
func alertDedupKey(itemID string) string {
	return fmt.Sprintf("alerts:sent:%s:%s", itemID, time.Now().UTC().Format("2006-01-02"))
}

// EnqueueLowStockAlert queues an email notifying that an item crossed its
// minimum threshold, unless an alert for the item already went out today.
// Returns false when the alert was deduplicated.
func (d *Dispatcher) EnqueueLowStockAlert(ctx context.Context, p AlertJobPayload) (bool, error) {
	key := alertDedupKey(p.ItemID)
	ok, err := d.rdb.SetNX(ctx, key, 1, 26*time.Hour).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := d.enqueue(ctx, QueueAlerts, "low_stock_alert", p); err != nil {
		// Drop the marker so the next producer retries this item.
		d.rdb.Del(ctx, key)
		return false, err
	}
	return true, nil
}

// EnqueueReceipt queues PDF receipt generation and buyer email delivery for a
// completed sale.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, p ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipts, "sale_receipt", p)
}

// WorkerHandlers bundles the processors the pool routes jobs to.
type WorkerHandlers struct {
	Alerts   *AlertWorker
	Receipts *ReceiptWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both job queues.
// Each worker blocks on BRPOP with a short timeout so it can notice context
// cancellation; the pool drains until ctx is done.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers WorkerHandlers, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 3
	}
	log.Info().Int("workers", numWorkers).Msg("starting worker pool")

	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, i, rdb, handlers)
	}
}

func runWorker(ctx context.Context, id int, rdb *redis.Client, handlers WorkerHandlers) {
	queues := []string{QueueAlerts, QueueReceipts}

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker stopping")
			return
		default:
		}

		res, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [queue, value]
		if len(res) != 2 {
			continue
		}
		processJob(ctx, id, rdb, handlers, res[0], []byte(res[1]))
	}
}

func processJob(ctx context.Context, workerID int, rdb *redis.Client, handlers WorkerHandlers, queue string, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("malformed job envelope, sending to DLQ")
		sendToDLQ(ctx, rdb, queue, raw, "malformed envelope")
		return
	}

	log.Info().
		Int("worker", workerID).
		Str("queue", queue).
		Str("type", job.Type).
		Msg("processing job")

	var err error
	switch queue {
	case QueueAlerts:
		err = handlers.Alerts.Process(ctx, job.Payload)
	case QueueReceipts:
		err = handlers.Receipts.Process(ctx, job.Payload)
	default:
		err = errors.New("unknown queue")
	}

	if err != nil {
		log.Error().Err(err).
			Str("queue", queue).
			Str("type", job.Type).
			Msg("job failed after retries, sending to DLQ")
		sendToDLQ(ctx, rdb, queue, raw, err.Error())
		return
	}

	log.Info().Str("queue", queue).Str("type", job.Type).Msg("job done")
}
