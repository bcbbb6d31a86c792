package reportService

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/utils"
)

const fileTimeLayout = "20060102_150405"

type ReportGenerator interface {
	Generate(ctx context.Context, report model.RunReport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type Notifier interface {
	Notify(ctx context.Context, text string, file *model.ReportFile) error
}

type ReportService struct {
	generator ReportGenerator
	storage   CloudStorage
	notifier  Notifier
}

// New builds the run report publisher. Any dependency may be nil, the
// corresponding step is skipped then.
func New(generator ReportGenerator, storage CloudStorage, notifier Notifier) *ReportService {
	return &ReportService{
		generator: generator,
		storage:   storage,
		notifier:  notifier,
	}
}

func (s *ReportService) Publish(ctx context.Context, report model.RunReport) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ReportService.Publish"

	slog.Debug("Publish start", slog.String("rqID", rqID), slog.String("op", op))

	text := FormatSummary(report)

	var file *model.ReportFile
	if s.generator != nil {
		raw, ext, err := s.generator.Generate(ctx, report)
		if err != nil {
			slog.Error("failed on generating report", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return fmt.Errorf("generate report: %w", err)
		}
		file = &model.ReportFile{Name: FileName(report) + ext, Content: raw}
	}

	// если файл удалось выложить, отправляем только ссылку
	if file != nil && s.storage != nil {
		link, err := s.storage.UploadFile(ctx, bytes.NewReader(file.Content), file.Name)
		if err != nil {
			slog.Error("failed on uploading report, sending it as document", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			text += "\n\nотчёт: " + link
			file = nil
		}
	}

	if s.notifier == nil {
		return nil
	}

	if err := s.notifier.Notify(ctx, text, file); err != nil {
		slog.Error("failed on sending report", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("notify: %w", err)
	}

	slog.Debug("Publish completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func FileName(report model.RunReport) string {
	runID, _, _ := strings.Cut(report.RunID, "-")
	return fmt.Sprintf("stock_sync_%s_%s", report.StartedAt.UTC().Format(fileTimeLayout), runID)
}

func FormatSummary(report model.RunReport) string {
	var sb strings.Builder

	status := "успешно"
	if report.Failed() {
		status = "с ошибками"
	}

	fmt.Fprintf(&sb, "Синхронизация %s завершена %s\n", report.RunID, status)
	fmt.Fprintf(&sb, "длительность: %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Second))

	if report.Feed.Failed() {
		fmt.Fprintf(&sb, "фид не загружен: %s", describeErr(report.Feed))
		return sb.String()
	}

	fmt.Fprintf(&sb, "строк в фиде: %d", report.FeedRecords)

	for _, ch := range report.Channels {
		fmt.Fprintf(
			&sb,
			"\n\n%s: офферов %d, не найдено в фиде %d, в наличии %d, отклонено %d",
			ch.Channel, ch.OfferIDs, ch.Unmatched, ch.StocksNonZero, ch.Rejected,
		)
		for _, step := range ch.Steps {
			if step.Failed() {
				fmt.Fprintf(&sb, "\n  %s: %s", step.Step, describeErr(step))
			}
		}
	}

	return sb.String()
}

func describeErr(step model.StepResult) string {
	if step.Err == nil {
		return ""
	}
	var msg string
	switch step.Kind {
	case model.TransportTimeout:
		msg = "таймаут"
	case model.ConnectionFailure:
		msg = "нет соединения"
	default:
		msg = "ошибка"
	}
	return fmt.Sprintf("%s (%s)", msg, step.Err.Error())
}
