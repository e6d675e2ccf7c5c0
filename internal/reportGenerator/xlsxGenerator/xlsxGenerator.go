package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Portfolio"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders the portfolio report into a single-sheet xlsx file:
// a holdings block, a totals block and the full transaction history.
func (g *XLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if _, err := f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	rowNum, err := g.fillHoldings(f, report)
	if err != nil {
		return nil, "", err
	}

	rowNum, err = g.fillTotals(f, report, rowNum+2)
	if err != nil {
		return nil, "", err
	}

	if err := g.fillHistory(f, report.Transactions, rowNum+2); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) sectionHeader(f *excelize.File, fromCell, toCell, title, color string) error {
	if err := f.MergeCell(sheetName, fromCell, toCell); err != nil {
		return err
	}

	f.SetCellValue(sheetName, fromCell, title)

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, fromCell, fromCell, styleID); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	return nil
}

func (g *XLSXGenerator) fillHoldings(f *excelize.File, report model.PortfolioReport) (lastRow int, err error) {
	if err := g.sectionHeader(f, "A1", "K1", "Holdings", "#cfe2f3"); err != nil {
		return 0, err
	}

	_ = f.SetCellStr(sheetName, "A2", "country")
	_ = f.SetCellStr(sheetName, "B2", "symbol")
	_ = f.SetCellStr(sheetName, "C2", "quantity")
	_ = f.SetCellStr(sheetName, "D2", "avg price paid")
	_ = f.SetCellStr(sheetName, "E2", "current price")
	_ = f.SetCellStr(sheetName, "F2", "day change %")
	_ = f.SetCellStr(sheetName, "G2", "gain %")
	_ = f.SetCellStr(sheetName, "H2", "invested")
	_ = f.SetCellStr(sheetName, "I2", "current value")
	_ = f.SetCellStr(sheetName, "J2", "total gain")
	_ = f.SetCellStr(sheetName, "K2", "currency")

	for i, row := range report.Rows {
		rowNum := i + 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), row.Country)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), row.Symbol)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), row.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), row.AveragePricePaid.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), row.CurrentPrice.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), row.DayChangePct.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), row.PctGain.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowNum), row.InvestedAmount.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowNum), row.CurrentValue.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowNum), row.TotalGain.InexactFloat64())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("K%d", rowNum), row.Currency)
	}

	return len(report.Rows) + 2, nil
}

func (g *XLSXGenerator) fillTotals(f *excelize.File, report model.PortfolioReport, rowNum int) (lastRow int, err error) {
	if err := g.sectionHeader(f, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum), "Totals (KRW)", "#d9ead3"); err != nil {
		return 0, err
	}

	rows := []struct {
		label string
		value float64
	}{
		{"invested", report.Value.InvestedAmount.InexactFloat64()},
		{"current value", report.Value.CurrentValue.InexactFloat64()},
		{"gain", report.Value.Gain.InexactFloat64()},
		{"yield %", report.Value.Yield.InexactFloat64()},
		{"cash", report.TotalCash.InexactFloat64()},
		{"total asset", report.CurrentAsset.InexactFloat64()},
	}

	for _, r := range rows {
		rowNum++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), r.label)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), r.value)
	}

	return rowNum, nil
}

func (g *XLSXGenerator) fillHistory(f *excelize.File, transactions []model.Transaction, rowNum int) error {
	if err := g.sectionHeader(f, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("H%d", rowNum), "Transaction history", "#cccccc"); err != nil {
		return err
	}

	rowNum++
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), "date")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), "country")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", rowNum), "symbol")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", rowNum), "type")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", rowNum), "quantity")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", rowNum), "price")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", rowNum), "total paid")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("H%d", rowNum), "total paid (KRW)")

	for _, trx := range transactions {
		rowNum++
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", rowNum), trx.Date.Format("2006-01-02"))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", rowNum), trx.Country)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", rowNum), trx.Symbol)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", rowNum), string(trx.Type))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), trx.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowNum), trx.Price.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowNum), trx.TotalPricePaid.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowNum), trx.TotalPricePaidKRW.InexactFloat64())
	}

	return nil
}
