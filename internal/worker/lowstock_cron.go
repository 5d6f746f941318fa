package worker

import (
	"context"
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// Periodic low-stock scan. Walks every item at or below its minimum threshold
// and enqueues one alert email per item per day. The daily dedup lives in
// Redis so restarts don't re-send.

const lowStockScanInterval = 1 * time.Hour

// StartLowStockCron launches the scan loop. It runs once immediately, then on
// every tick until ctx is cancelled.
func StartLowStockCron(ctx context.Context, itemRepo repository.ItemRepository, dispatcher *Dispatcher, alertEmail string) {
	go func() {
		log.Info().Dur("interval", lowStockScanInterval).Msg("starting low-stock scan")

		scanLowStock(ctx, itemRepo, dispatcher, alertEmail)

		ticker := time.NewTicker(lowStockScanInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("low-stock scan stopping")
				return
			case <-ticker.C:
				scanLowStock(ctx, itemRepo, dispatcher, alertEmail)
			}
		}
	}()
}

func scanLowStock(ctx context.Context, itemRepo repository.ItemRepository, dispatcher *Dispatcher, alertEmail string) {
	items, err := itemRepo.ListAllLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("low-stock scan query failed")
		return
	}
	if len(items) == 0 {
		return
	}

	enqueued := 0
	for _, item := range items {
		payload := AlertJobPayload{
			ItemID:       item.ID.String(),
			ItemName:     item.Name,
			Quantity:     item.Quantity.String(),
			MinThreshold: item.MinThreshold.String(),
			Unit:         item.Unit,
			ToEmail:      alertEmail,
		}
		// The dispatcher dedups one alert per item per day, so items already
		// alerted on a threshold crossing are skipped here.
		sent, err := dispatcher.EnqueueLowStockAlert(ctx, payload)
		if err != nil {
			log.Error().Err(err).Str("item_id", item.ID.String()).Msg("enqueue low-stock alert failed")
			continue
		}
		if sent {
			enqueued++
		}
	}

	if enqueued > 0 {
		log.Info().Int("alerts", enqueued).Msg("low-stock scan enqueued alerts")
	}
}
