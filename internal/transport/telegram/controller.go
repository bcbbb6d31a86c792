package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/service"
	"github.com/KotFed0t/stock_sync/internal/service/reportService"
	"github.com/KotFed0t/stock_sync/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg   = "что-то пошло не так..."
	runInProgressMsg = "Синхронизация уже выполняется, отчёт придёт по завершении текущего запуска"
)

type SyncService interface {
	Run(ctx context.Context) (model.RunReport, error)
	InProgress() bool
	LastReport() (model.RunReport, bool)
}

type Controller struct {
	syncService SyncService
}

func NewController(syncService SyncService) *Controller {
	return &Controller{syncService: syncService}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Reply("Привет! Команды:\n/sync - запустить синхронизацию\n/last - итоги последнего запуска")
}

// Sync blocks until the run finishes, updates are handled concurrently by the bot.
func (ctrl *Controller) Sync(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if ctrl.syncService.InProgress() {
		return c.Reply(runInProgressMsg)
	}

	if err := c.Reply("Запрос на синхронизацию принят, отчёт придёт по завершении"); err != nil {
		slog.Error("failed on reply", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}

	report, err := ctrl.syncService.Run(ctx)
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			// запуск по расписанию успел занять блокировку
			return c.Send(runInProgressMsg)
		}
		slog.Error("got error from syncService.Run", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	if report.Failed() {
		return c.Send("Синхронизация завершена с ошибками, подробности в /last")
	}
	return c.Send("Синхронизация завершена успешно")
}

func (ctrl *Controller) Last(c tele.Context) error {
	report, ok := ctrl.syncService.LastReport()
	if !ok {
		return c.Reply("Синхронизаций ещё не было")
	}
	return c.Reply(Truncate(reportService.FormatSummary(report)))
}
