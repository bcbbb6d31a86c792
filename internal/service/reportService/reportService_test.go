package reportService

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	err error
}

func (g *fakeGenerator) Generate(ctx context.Context, report model.RunReport) ([]byte, string, error) {
	if g.err != nil {
		return nil, "", g.err
	}
	return []byte("xlsx"), ".xlsx", nil
}

type fakeStorage struct {
	err      error
	uploaded string
	content  []byte
}

func (s *fakeStorage) UploadFile(ctx context.Context, reader io.Reader, filename string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded = filename
	s.content, _ = io.ReadAll(reader)
	return "https://drive.example/" + filename, nil
}

type fakeNotifier struct {
	text string
	file *model.ReportFile
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, text string, file *model.ReportFile) error {
	n.text = text
	n.file = file
	return n.err
}

func sampleReport() model.RunReport {
	return model.RunReport{
		RunID:       "a1b2c3d4-0000-0000-0000-000000000000",
		StartedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:  time.Date(2024, 5, 1, 12, 0, 42, 300, time.UTC),
		FeedRecords: 10,
		Feed:        model.StepResult{Step: model.StepLoadFeed, Items: 10},
		Channels: []model.ChannelReport{
			{
				Channel:       "ozon",
				OfferIDs:      8,
				Unmatched:     1,
				StocksNonZero: 5,
				Rejected:      2,
				Steps: []model.StepResult{
					{Step: model.StepList, Items: 8},
					{Step: model.StepReconcile, Items: 8},
					{Step: model.StepPushStocks, Err: errors.New("i/o timeout"), Kind: model.TransportTimeout},
					{Step: model.StepPushPrices, Items: 8, Batches: 1},
				},
			},
		},
	}
}

func TestFormatSummary(t *testing.T) {
	text := FormatSummary(sampleReport())

	assert.Contains(t, text, "завершена с ошибками")
	assert.Contains(t, text, "длительность: 42s")
	assert.Contains(t, text, "строк в фиде: 10")
	assert.Contains(t, text, "ozon: офферов 8, не найдено в фиде 1, в наличии 5, отклонено 2")
	assert.Contains(t, text, "push_stocks: таймаут (i/o timeout)")
	assert.NotContains(t, text, "push_prices")
}

func TestFormatSummary_FeedFailed(t *testing.T) {
	report := model.RunReport{
		RunID: "run",
		Feed:  model.StepResult{Step: model.StepLoadFeed, Err: errors.New("dial tcp"), Kind: model.ConnectionFailure},
	}

	text := FormatSummary(report)

	assert.Contains(t, text, "фид не загружен: нет соединения (dial tcp)")
	assert.NotContains(t, text, "строк в фиде")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "stock_sync_20240501_120000_a1b2c3d4", FileName(sampleReport()))
}

func TestPublish_UploadsAndSendsLink(t *testing.T) {
	storage := &fakeStorage{}
	notifier := &fakeNotifier{}

	err := New(&fakeGenerator{}, storage, notifier).Publish(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "stock_sync_20240501_120000_a1b2c3d4.xlsx", storage.uploaded)
	assert.Equal(t, []byte("xlsx"), storage.content)
	assert.Nil(t, notifier.file)
	assert.Contains(t, notifier.text, "отчёт: https://drive.example/stock_sync_20240501_120000_a1b2c3d4.xlsx")
}

func TestPublish_UploadFailedSendsDocument(t *testing.T) {
	notifier := &fakeNotifier{}

	err := New(&fakeGenerator{}, &fakeStorage{err: errors.New("quota")}, notifier).Publish(context.Background(), sampleReport())
	require.NoError(t, err)

	require.NotNil(t, notifier.file)
	assert.Equal(t, "stock_sync_20240501_120000_a1b2c3d4.xlsx", notifier.file.Name)
	assert.NotContains(t, notifier.text, "отчёт:")
}

func TestPublish_WithoutStorage(t *testing.T) {
	notifier := &fakeNotifier{}

	err := New(&fakeGenerator{}, nil, notifier).Publish(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotNil(t, notifier.file)
	assert.Equal(t, []byte("xlsx"), notifier.file.Content)
}

func TestPublish_Errors(t *testing.T) {
	err := New(&fakeGenerator{err: errors.New("boom")}, nil, &fakeNotifier{}).Publish(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "generate report")

	err = New(nil, nil, &fakeNotifier{err: errors.New("blocked")}).Publish(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "notify")

	err = New(nil, nil, nil).Publish(context.Background(), sampleReport())
	assert.NoError(t, err)
}
