package infra

// pdf.go — movement-ledger report export using go-pdf/fpdf.
// Renders the filtered ledger as an A4 table with a totals footer
// (inbound, outbound, net), streamed back to the caller as bytes.

import (
	"bytes"
	"fmt"

	"korecatalog/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateLedgerPDF renders the given movements (newest first, as listed) into
// a printable report. totalIn/totalOut are the direction sums over the same
// filtered set; period is a human-readable description of the active filters.
func GenerateLedgerPDF(movements []model.StockMovement, totalIn, totalOut int64, period string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Stock Movement Ledger", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, period, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	colDate := contentW * 0.18
	colProd := contentW * 0.30
	colDir := contentW * 0.10
	colQty := contentW * 0.10
	colReason := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colDate, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colProd, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDir, 6, "Dir", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colReason, 6, "Reason", "B", 1, "L", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, m := range movements {
		name := ""
		if m.Product != nil {
			name = m.Product.Name
		}
		if len(name) > 32 {
			name = name[:31] + "…"
		}
		reason := m.Reason
		if len(reason) > 40 {
			reason = reason[:39] + "…"
		}
		pdf.CellFormat(colDate, 5, m.CreatedAt.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colProd, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colDir, 5, m.Direction, "", 0, "C", false, 0, "")
		pdf.CellFormat(colQty, 5, fmt.Sprintf("%d", m.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(colReason, 5, reason, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Inbound: %d    Outbound: %d    Net: %+d",
		totalIn, totalOut, totalIn-totalOut), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render ledger report: %w", err)
	}
	return buf.Bytes(), nil
}
