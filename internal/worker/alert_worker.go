package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertJobPayload describes a low-stock notification to be emailed.
type AlertJobPayload struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	Quantity     string `json:"quantity"`
	MinThreshold string `json:"min_threshold"`
	Unit         string `json:"unit"`
	ToEmail      string `json:"to_email"`
}

// AlertWorker delivers low-stock alert emails.
type AlertWorker struct {
	mailer *infra.Mailer
}

func NewAlertWorker(mailer *infra.Mailer) *AlertWorker {
	return &AlertWorker{mailer: mailer}
}

func (w *AlertWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p AlertJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("alert worker: unmarshal payload: %w", err)
	}
	if p.ToEmail == "" {
		log.Warn().Str("item_id", p.ItemID).Msg("alert has no recipient, skipping")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", p.ItemName)
	body := fmt.Sprintf(
		"Inventory item %q is at or below its minimum threshold.\n\n"+
			"  On hand:   %s %s\n"+
			"  Threshold: %s %s\n\n"+
			"Restock soon to avoid running out.\n",
		p.ItemName, p.Quantity, p.Unit, p.MinThreshold, p.Unit,
	)

	err := withRetry(ctx, 3, func(attempt int) error {
		return w.mailer.Send(p.ToEmail, subject, body, "")
	})
	if err != nil {
		return fmt.Errorf("alert worker: send email for item %s: %w", p.ItemID, err)
	}

	log.Info().Str("item_id", p.ItemID).Str("to", p.ToEmail).Msg("low-stock alert sent")
	return nil
}
