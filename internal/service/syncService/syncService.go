package syncService

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KotFed0t/stock_sync/internal/batch"
	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/model/feedModel"
	"github.com/KotFed0t/stock_sync/internal/reconciler"
	"github.com/KotFed0t/stock_sync/internal/service"
	"github.com/KotFed0t/stock_sync/utils"
)

type FeedLoader interface {
	Load(ctx context.Context) ([]feedModel.Record, error)
}

type Publisher interface {
	Publish(ctx context.Context, report model.RunReport) error
}

type SyncService struct {
	feed      FeedLoader
	channels  []Channel
	publisher Publisher
	now       func() time.Time

	// held for the whole run, runs never overlap
	runMu   sync.Mutex
	running atomic.Bool

	lastMu     sync.RWMutex
	lastReport *model.RunReport
}

// New creates the run driver. publisher may be nil.
func New(feed FeedLoader, channels []Channel, publisher Publisher) *SyncService {
	return &SyncService{
		feed:      feed,
		channels:  channels,
		publisher: publisher,
		now:       time.Now,
	}
}

// Run loads the feed once and synchronizes every channel in order. Failures are
// recorded in the report and never retried; the returned error is only
// service.ErrRunInProgress.
func (s *SyncService) Run(ctx context.Context) (model.RunReport, error) {
	if !s.runMu.TryLock() {
		return model.RunReport{}, service.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	s.running.Store(true)
	defer s.running.Store(false)

	// rqID вызывающего (например, команды бота) сохраняется
	ctx = utils.NewCtxWithRqID(ctx)
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SyncService.Run"

	slog.Info("sync run start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("channels", len(s.channels)))

	report := model.RunReport{RunID: rqID, StartedAt: s.now()}

	records, err := s.feed.Load(ctx)
	report.Feed = stepResult(model.StepLoadFeed, len(records), 0, err)
	if err != nil {
		slog.Error("feed loading failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("kind", string(report.Feed.Kind)), slog.String("err", err.Error()))
	} else {
		report.FeedRecords = len(records)
		for _, ch := range s.channels {
			report.Channels = append(report.Channels, s.syncChannel(ctx, records, ch))
		}
	}

	report.FinishedAt = s.now()
	logReport(rqID, report)

	s.lastMu.Lock()
	s.lastReport = &report
	s.lastMu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, report); err != nil {
			slog.Error("report publishing failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}

	return report, nil
}

func (s *SyncService) InProgress() bool {
	return s.running.Load()
}

func (s *SyncService) LastReport() (model.RunReport, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()

	if s.lastReport == nil {
		return model.RunReport{}, false
	}
	return *s.lastReport, true
}

func (s *SyncService) syncChannel(ctx context.Context, records []feedModel.Record, ch Channel) model.ChannelReport {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SyncService.syncChannel"
	chReport := model.ChannelReport{Channel: ch.Name()}

	slog.Info("channel sync start", slog.String("rqID", rqID), slog.String("op", op), slog.String("channel", ch.Name()))

	offerIDs, err := ch.ListOfferIDs(ctx)
	chReport.Steps = append(chReport.Steps, stepResult(model.StepList, len(offerIDs), 0, err))
	if err != nil {
		slog.Error("listing offers failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("channel", ch.Name()), slog.String("err", err.Error()))
		return chReport
	}
	chReport.OfferIDs = len(offerIDs)

	res, err := reconciler.Reconcile(records, offerIDs, ch.Currency())
	chReport.Steps = append(chReport.Steps, stepResult(model.StepReconcile, len(res.Stocks), 0, err))
	if err != nil {
		slog.Error("reconciliation failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("channel", ch.Name()), slog.String("err", err.Error()))
		return chReport
	}

	chReport.Stocks = res.Stocks
	chReport.Prices = res.Prices
	chReport.Unmatched = len(res.Unmatched)
	for _, stock := range res.Stocks {
		if stock.Quantity != 0 {
			chReport.StocksNonZero++
		}
	}

	updatedAt := s.now().UTC().Truncate(time.Second)

	stocksStep, rejected := pushInBatches(ctx, model.StepPushStocks, res.Stocks, ch.StockBatchSize(),
		func(ctx context.Context, chunk []model.StockUpdate) (int, error) {
			return ch.PushStocks(ctx, chunk, updatedAt)
		})
	chReport.Steps = append(chReport.Steps, stocksStep)
	chReport.Rejected += rejected

	pricesStep, rejected := pushInBatches(ctx, model.StepPushPrices, res.Prices, ch.PriceBatchSize(), ch.PushPrices)
	chReport.Steps = append(chReport.Steps, pricesStep)
	chReport.Rejected += rejected

	return chReport
}

// pushInBatches stops at the first failing batch, already sent batches stay applied.
func pushInBatches[T any](
	ctx context.Context,
	step model.Step,
	items []T,
	size int,
	push func(ctx context.Context, chunk []T) (int, error),
) (model.StepResult, int) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	chunks, err := batch.Divide(items, size)
	if err != nil {
		return stepResult(step, 0, 0, err), 0
	}

	pushed, batches, rejected := 0, 0, 0
	for chunk := range chunks {
		n, err := push(ctx, chunk)
		if err != nil {
			slog.Error(
				"batch push failed",
				slog.String("rqID", rqID),
				slog.String("step", string(step)),
				slog.Int("batch", batches+1),
				slog.String("err", err.Error()),
			)
			return stepResult(step, pushed, batches, err), rejected
		}
		pushed += len(chunk)
		batches++
		rejected += n
	}

	return stepResult(step, pushed, batches, nil), rejected
}

func logReport(rqID string, report model.RunReport) {
	for _, ch := range report.Channels {
		for _, step := range ch.Steps {
			attrs := []any{
				slog.String("rqID", rqID),
				slog.String("channel", ch.Channel),
				slog.String("step", string(step.Step)),
				slog.Int("items", step.Items),
				slog.Int("batches", step.Batches),
			}
			if step.Failed() {
				attrs = append(attrs, slog.String("kind", string(step.Kind)), slog.String("err", step.Err.Error()))
				slog.Warn("step failed", attrs...)
				continue
			}
			slog.Info("step done", attrs...)
		}
	}

	slog.Info(
		"sync run finished",
		slog.String("rqID", rqID),
		slog.Bool("failed", report.Failed()),
		slog.Int("feedRecords", report.FeedRecords),
		slog.Int("channels", len(report.Channels)),
		slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
}
