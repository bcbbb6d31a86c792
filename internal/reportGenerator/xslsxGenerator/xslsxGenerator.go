package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/utils"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Сводка"
	timeLayout   = "2006-01-02 15:04:05"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, report model.RunReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
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
			Color:   []string{"#cfe2f3"}, // светло-голубой
		},
	})
	if err != nil {
		return nil, "", err
	}

	if err := g.fillSummary(f, report, headerStyle); err != nil {
		slog.Error("got error while filling summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	for i, ch := range report.Channels {
		if err := g.fillChannelSheet(f, ch, i+1, headerStyle); err != nil {
			slog.Error("got error while filling channel sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("channel", ch.Channel), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	// лист по умолчанию "Sheet1" не нужен
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillSummary(f *excelize.File, report model.RunReport, headerStyle int) error {
	idx, err := f.NewSheet(SummarySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	_ = f.SetCellStr(SummarySheet, "A1", "запуск")
	_ = f.SetCellStr(SummarySheet, "B1", report.RunID)
	_ = f.SetCellStr(SummarySheet, "A2", "начало")
	_ = f.SetCellStr(SummarySheet, "B2", report.StartedAt.Format(timeLayout))
	_ = f.SetCellStr(SummarySheet, "A3", "окончание")
	_ = f.SetCellStr(SummarySheet, "B3", report.FinishedAt.Format(timeLayout))
	_ = f.SetCellStr(SummarySheet, "A4", "строк в фиде")
	_ = f.SetCellInt(SummarySheet, "B4", int64(report.FeedRecords))

	row := 6
	headers := []any{"канал", "шаг", "позиций", "пакетов", "статус", "ошибка"}
	if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row), &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), headerStyle); err != nil {
		return fmt.Errorf("ошибка применения стиля: %w", err)
	}

	row++
	if err := setStepRow(f, row, "фид", report.Feed); err != nil {
		return err
	}

	for _, ch := range report.Channels {
		for _, step := range ch.Steps {
			row++
			if err := setStepRow(f, row, ch.Channel, step); err != nil {
				return err
			}
		}
	}

	return nil
}

func setStepRow(f *excelize.File, row int, channel string, step model.StepResult) error {
	status, errText := "ok", ""
	if step.Failed() {
		status = string(step.Kind)
		errText = step.Err.Error()
	}

	values := []any{channel, string(step.Step), step.Items, step.Batches, status, errText}
	return f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row), &values)
}

func (g *XSLSXGenerator) fillChannelSheet(f *excelize.File, ch model.ChannelReport, ordinal int, headerStyle int) error {
	sheetName := fmt.Sprintf("%d. %s", ordinal, ch.Channel)
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	_ = f.SetCellStr(sheetName, "A1", "артикул")
	_ = f.SetCellStr(sheetName, "B1", "остаток")
	_ = f.SetCellStr(sheetName, "C1", "цена")
	_ = f.SetCellStr(sheetName, "D1", "валюта")
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("ошибка применения стиля: %w", err)
	}

	prices := make(map[string]model.PriceUpdate, len(ch.Prices))
	for _, p := range ch.Prices {
		prices[p.OfferID] = p
	}

	for i, stock := range ch.Stocks {
		row := i + 2
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), stock.OfferID)
		_ = f.SetCellInt(sheetName, fmt.Sprintf("B%d", row), int64(stock.Quantity))
		if price, ok := prices[stock.OfferID]; ok {
			_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), price.Price)
			_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", row), price.Currency)
		}
	}

	return nil
}
