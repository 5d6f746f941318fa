package infra

// pdf.go — sale receipt generation using go-pdf/fpdf.
// Produces an A5 receipt with farm name header, receipt number/date, buyer,
// a description block and a bold total. The file is saved to
// storagePath/receipt_{id}.pdf and later attached to the buyer email.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a PDF receipt for a completed sale entry.
// storagePath is the directory the PDF is written to (created if needed).
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(entry *model.FinanceEntry, farmName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", entry.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	if farmName == "" {
		farmName = "Farm Sale Receipt"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, farmName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Sale Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Receipt %s", entry.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, entry.EntryDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	if entry.Counterparty != "" {
		pdf.CellFormat(contentW, 5, "Buyer: "+entry.Counterparty, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Detail ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.6, 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	desc := entry.Category
	if entry.Notes != "" {
		desc = entry.Category + " — " + entry.Notes
	}
	if len(desc) > 60 {
		desc = desc[:59] + "…"
	}
	pdf.CellFormat(contentW*0.6, 6, desc, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, "$"+entry.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.6, 8, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 8, "$"+entry.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Thank you for your purchase.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
