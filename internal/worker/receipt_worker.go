package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/infra"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload identifies the sale entry a receipt must be produced for.
type ReceiptJobPayload struct {
	EntryID    string `json:"entry_id"`
	OwnerID    string `json:"owner_id"`
	BuyerEmail string `json:"buyer_email"`
	FarmName   string `json:"farm_name"`
}

// ReceiptWorker generates a PDF receipt for a sale and emails it to the buyer.
type ReceiptWorker struct {
	financeRepo repository.FinanceRepository
	mailer      *infra.Mailer
	storagePath string
}

func NewReceiptWorker(financeRepo repository.FinanceRepository, mailer *infra.Mailer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		financeRepo: financeRepo,
		mailer:      mailer,
		storagePath: storagePath,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p ReceiptJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("receipt worker: unmarshal payload: %w", err)
	}

	entryID, err := uuid.Parse(p.EntryID)
	if err != nil {
		return fmt.Errorf("receipt worker: bad entry id %q: %w", p.EntryID, err)
	}
	ownerID, err := uuid.Parse(p.OwnerID)
	if err != nil {
		return fmt.Errorf("receipt worker: bad owner id %q: %w", p.OwnerID, err)
	}

	entry, err := w.financeRepo.FindByID(ctx, ownerID, entryID)
	if err != nil {
		return fmt.Errorf("receipt worker: load entry %s: %w", p.EntryID, err)
	}

	// PDF generation is local and deterministic, no retry needed.
	pdfPath, err := infra.GenerateReceiptPDF(entry, p.FarmName, w.storagePath)
	if err != nil {
		return fmt.Errorf("receipt worker: generate pdf: %w", err)
	}
	log.Info().Str("entry_id", p.EntryID).Str("pdf", pdfPath).Msg("receipt generated")

	if p.BuyerEmail == "" {
		return nil
	}

	subject := "Your purchase receipt"
	body := fmt.Sprintf(
		"Thank you for your purchase.\n\n"+
			"Amount: $%s\n"+
			"Date:   %s\n\n"+
			"Your receipt is attached.\n",
		entry.Amount.StringFixed(2), entry.EntryDate.Format("2006-01-02"),
	)

	err = withRetry(ctx, 3, func(attempt int) error {
		return w.mailer.Send(p.BuyerEmail, subject, body, pdfPath)
	})
	if err != nil {
		return fmt.Errorf("receipt worker: email receipt for entry %s: %w", p.EntryID, err)
	}

	log.Info().Str("entry_id", p.EntryID).Str("to", p.BuyerEmail).Msg("receipt emailed")
	return nil
}
