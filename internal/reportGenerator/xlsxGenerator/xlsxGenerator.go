package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ricmaia/carteira/internal/model"
	"github.com/ricmaia/carteira/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(report.Holdings) == 0 {
		return nil, "", errors.New("empty holdings")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSheet(ctx, f, report); err != nil {
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

func (g *XLSXGenerator) fillSheet(ctx context.Context, f *excelize.File, report model.PortfolioReport) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.fillSheet"

	sheetName := report.PortfolioName
	if sheetName == "" {
		sheetName = "Portfolio"
	}
	if _, err := f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	// holdings block
	if err := f.MergeCell(sheetName, "A1", "E1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Holdings (%s)", report.Period))

	if err := g.applyHeaderStyle(f, sheetName, "A1", "#cfe2f3"); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A2", "ticker")
	_ = f.SetCellStr(sheetName, "B2", "invested value")
	_ = f.SetCellStr(sheetName, "C2", "weight")
	_ = f.SetCellStr(sheetName, "D2", "valorization %")
	_ = f.SetCellStr(sheetName, "E2", "dividends")

	hundred := decimal.New(100, 0)
	row := 3
	for _, h := range report.Holdings {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), h.Ticker)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), h.Value.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), h.Weight.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), h.Valorization.Mul(hundred).InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), h.Dividends.InexactFloat64())
		row++
	}

	// portfolio totals block
	totalsHeader := fmt.Sprintf("A%d", row+1)
	if err := f.MergeCell(sheetName, totalsHeader, fmt.Sprintf("C%d", row+1)); err != nil {
		return err
	}
	f.SetCellValue(sheetName, totalsHeader, "Portfolio")
	if err := g.applyHeaderStyle(f, sheetName, totalsHeader, "#d9ead3"); err != nil {
		return err
	}

	row += 2
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "total value")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), "valorization %")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), "dividends")
	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), report.TotalValue.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), report.Valorization.Mul(hundred).InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), report.Dividends.InexactFloat64())

	// correlations block
	if len(report.Correlations) > 0 {
		corrHeader := fmt.Sprintf("A%d", row+2)
		if err := f.MergeCell(sheetName, corrHeader, fmt.Sprintf("C%d", row+2)); err != nil {
			return err
		}
		f.SetCellValue(sheetName, corrHeader, "Correlations")
		if err := g.applyHeaderStyle(f, sheetName, corrHeader, "#fff2cc"); err != nil {
			return err
		}

		row += 3
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "ticker A")
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), "ticker B")
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), "pearson")
		row++
		for _, c := range report.Correlations {
			_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), c.TickerA)
			_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), c.TickerB)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), c.Coefficient)
			row++
		}
	}

	return nil
}

func (g *XLSXGenerator) applyHeaderStyle(f *excelize.File, sheetName, cell, fill string) error {
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
			Color:   []string{fill},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, cell, cell, styleID); err != nil {
		return fmt.Errorf("style apply error: %w", err)
	}
	return nil
}
