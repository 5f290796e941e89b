package infra

// excel.go — Production record exports using excelize.
// One sheet, a bold header row, one row per record. The file is either
// streamed to the client or written under the report storage dir by the
// async report worker.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"wiremon/internal/model"

	"github.com/xuri/excelize/v2"
)

const productionSheet = "Production"

var productionHeader = []string{
	"Date", "Stage", "Shift", "Input (kg)", "Output (kg)", "Scrap (kg)",
	"Efficiency %", "Loss %", "Operator", "Notes",
}

func buildProductionWorkbook(records []model.ProductionRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", productionSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for col, title := range productionHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(productionSheet, cell, title); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(productionSheet, cell, cell, headerStyle)
	}

	for i, rec := range records {
		row := i + 2
		operator, notes := "", ""
		if rec.OperatorName != nil {
			operator = *rec.OperatorName
		}
		if rec.Notes != nil {
			notes = *rec.Notes
		}
		values := []interface{}{
			rec.Date.Format("2006-01-02"),
			string(rec.Stage),
			string(rec.Shift),
			rec.InputQty.InexactFloat64(),
			rec.OutputQty.InexactFloat64(),
			rec.ScrapQty.InexactFloat64(),
			rec.Efficiency,
			rec.LossPercentage,
			operator,
			notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(productionSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(productionSheet, "A", "J", 14)
	return f, nil
}

// WriteProductionXLSX streams the workbook, for direct HTTP download.
func WriteProductionXLSX(records []model.ProductionRecord, w io.Writer) error {
	f, err := buildProductionWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveProductionXLSX writes the workbook under storagePath and returns the
// absolute file path.
func SaveProductionXLSX(records []model.ProductionRecord, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("excel: create storage dir: %w", err)
	}

	f, err := buildProductionWorkbook(records)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(storagePath, fmt.Sprintf("production_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("excel: write file: %w", err)
	}
	return path, nil
}
