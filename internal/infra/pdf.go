package infra

// pdf.go — Production report rendering using go-pdf/fpdf.
// Generates an A4 landscape table of production records with:
//   - Plant name header and date range subtitle
//   - Column headers (stage, shift, quantities, efficiency, loss)
//   - One row per record, truncated operator names
//   - Totals line
//
// The output file is saved to storagePath/production_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wiremon/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateProductionPDF renders the record set into a tabular PDF report.
// Returns the absolute path to the generated file.
func GenerateProductionPDF(records []model.ProductionRecord, dateRange, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("production_%s.pdf", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Wire Production Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, dateRange, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Table header ──────────────────────────────────────────────────────────
	cols := []struct {
		title string
		width float64
	}{
		{"Date", 0.11}, {"Stage", 0.10}, {"Shift", 0.10},
		{"Input (kg)", 0.12}, {"Output (kg)", 0.12}, {"Scrap (kg)", 0.11},
		{"Eff %", 0.09}, {"Loss %", 0.09}, {"Operator", 0.16},
	}

	pdf.SetFont("Helvetica", "B", 8)
	for _, c := range cols {
		pdf.CellFormat(contentW*c.width, 6, c.title, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	totalIn, totalOut, totalScrap := decimal.Zero, decimal.Zero, decimal.Zero
	for _, rec := range records {
		operator := ""
		if rec.OperatorName != nil {
			operator = *rec.OperatorName
		}
		if len(operator) > 24 {
			operator = operator[:23] + "…"
		}

		cells := []string{
			rec.Date.Format("2006-01-02"),
			string(rec.Stage),
			string(rec.Shift),
			rec.InputQty.StringFixed(2),
			rec.OutputQty.StringFixed(2),
			rec.ScrapQty.StringFixed(2),
			fmt.Sprintf("%.1f", rec.Efficiency),
			fmt.Sprintf("%.1f", rec.LossPercentage),
			operator,
		}
		for i, c := range cols {
			pdf.CellFormat(contentW*c.width, 5, cells[i], "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		totalIn = totalIn.Add(rec.InputQty)
		totalOut = totalOut.Add(rec.OutputQty)
		totalScrap = totalScrap.Add(rec.ScrapQty)
	}

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf(
		"Records: %d    Total input: %s kg    Total output: %s kg    Total scrap: %s kg",
		len(records), totalIn.StringFixed(2), totalOut.StringFixed(2), totalScrap.StringFixed(2),
	), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
