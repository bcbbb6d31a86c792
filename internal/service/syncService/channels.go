package syncService

import (
	"context"
	"log/slog"
	"time"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/converter/ozonConverter"
	"github.com/KotFed0t/stock_sync/internal/converter/yandexConverter"
	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/model/ozonModel"
	"github.com/KotFed0t/stock_sync/internal/model/yandexModel"
	"github.com/KotFed0t/stock_sync/utils"
)

// Channel is a single marketplace destination: an Ozon seller account or a Yandex Market campaign.
type Channel interface {
	Name() string
	Currency() string
	StockBatchSize() int
	PriceBatchSize() int
	ListOfferIDs(ctx context.Context) ([]string, error)
	PushStocks(ctx context.Context, stocks []model.StockUpdate, updatedAt time.Time) (rejected int, err error)
	PushPrices(ctx context.Context, prices []model.PriceUpdate) (rejected int, err error)
}

type OzonApi interface {
	GetOfferIDs(ctx context.Context) ([]string, error)
	UpdateStocks(ctx context.Context, stocks []ozonModel.Stock) ([]ozonModel.ImportResult, error)
	UpdatePrices(ctx context.Context, prices []ozonModel.Price) ([]ozonModel.ImportResult, error)
}

type YandexMarketApi interface {
	GetOfferIDs(ctx context.Context, campaignID string) ([]string, error)
	UpdateStocks(ctx context.Context, campaignID string, skus []yandexModel.SkuStock) error
	UpdatePrices(ctx context.Context, campaignID string, offers []yandexModel.OfferPrice) error
}

// BuildChannels returns the channels that have credentials configured.
func BuildChannels(cfg *config.Config, ozonApi OzonApi, yandexApi YandexMarketApi) []Channel {
	var channels []Channel

	if cfg.Ozon.Enabled() {
		channels = append(channels, NewOzonChannel(ozonApi, cfg.Ozon.StockBatchSize, cfg.Ozon.PriceBatchSize))
	}

	if cfg.YandexMarket.Token != "" {
		ym := cfg.YandexMarket
		if ym.FbsCampaignID != "" {
			channels = append(channels, NewYandexChannel(yandexApi, "yandex_fbs", ym.FbsCampaignID, ym.FbsWarehouseID, ym.StockBatchSize, ym.PriceBatchSize))
		}
		if ym.DbsCampaignID != "" {
			channels = append(channels, NewYandexChannel(yandexApi, "yandex_dbs", ym.DbsCampaignID, ym.DbsWarehouseID, ym.StockBatchSize, ym.PriceBatchSize))
		}
	}

	return channels
}

type OzonChannel struct {
	api            OzonApi
	stockBatchSize int
	priceBatchSize int
}

func NewOzonChannel(api OzonApi, stockBatchSize, priceBatchSize int) *OzonChannel {
	return &OzonChannel{api: api, stockBatchSize: stockBatchSize, priceBatchSize: priceBatchSize}
}

func (c *OzonChannel) Name() string        { return "ozon" }
func (c *OzonChannel) Currency() string    { return ozonConverter.CurrencyRUB }
func (c *OzonChannel) StockBatchSize() int { return c.stockBatchSize }
func (c *OzonChannel) PriceBatchSize() int { return c.priceBatchSize }

func (c *OzonChannel) ListOfferIDs(ctx context.Context) ([]string, error) {
	return c.api.GetOfferIDs(ctx)
}

func (c *OzonChannel) PushStocks(ctx context.Context, stocks []model.StockUpdate, _ time.Time) (int, error) {
	results, err := c.api.UpdateStocks(ctx, ozonConverter.ConvertStocks(stocks))
	if err != nil {
		return 0, err
	}
	return countRejected(ctx, "OzonChannel.PushStocks", results), nil
}

func (c *OzonChannel) PushPrices(ctx context.Context, prices []model.PriceUpdate) (int, error) {
	results, err := c.api.UpdatePrices(ctx, ozonConverter.ConvertPrices(prices))
	if err != nil {
		return 0, err
	}
	return countRejected(ctx, "OzonChannel.PushPrices", results), nil
}

// countRejected logs offers Ozon accepted the request for but did not update.
func countRejected(ctx context.Context, op string, results []ozonModel.ImportResult) int {
	rqID := utils.GetRequestIDFromCtx(ctx)
	rejected := 0
	for _, res := range results {
		if res.Updated {
			continue
		}
		rejected++
		slog.Warn("offer not updated", slog.String("rqID", rqID), slog.String("op", op), slog.String("offerID", res.OfferID), slog.Any("errors", res.Errors))
	}
	return rejected
}

type YandexChannel struct {
	api            YandexMarketApi
	name           string
	campaignID     string
	warehouseID    int64
	stockBatchSize int
	priceBatchSize int
}

func NewYandexChannel(api YandexMarketApi, name, campaignID string, warehouseID int64, stockBatchSize, priceBatchSize int) *YandexChannel {
	return &YandexChannel{
		api:            api,
		name:           name,
		campaignID:     campaignID,
		warehouseID:    warehouseID,
		stockBatchSize: stockBatchSize,
		priceBatchSize: priceBatchSize,
	}
}

func (c *YandexChannel) Name() string        { return c.name }
func (c *YandexChannel) Currency() string    { return yandexModel.CurrencyRUR }
func (c *YandexChannel) StockBatchSize() int { return c.stockBatchSize }
func (c *YandexChannel) PriceBatchSize() int { return c.priceBatchSize }

func (c *YandexChannel) ListOfferIDs(ctx context.Context) ([]string, error) {
	return c.api.GetOfferIDs(ctx, c.campaignID)
}

func (c *YandexChannel) PushStocks(ctx context.Context, stocks []model.StockUpdate, updatedAt time.Time) (int, error) {
	skus := yandexConverter.ConvertStocks(stocks, c.warehouseID, updatedAt)
	return 0, c.api.UpdateStocks(ctx, c.campaignID, skus)
}

func (c *YandexChannel) PushPrices(ctx context.Context, prices []model.PriceUpdate) (int, error) {
	offers, err := yandexConverter.ConvertPrices(prices)
	if err != nil {
		return 0, err
	}
	return 0, c.api.UpdatePrices(ctx, c.campaignID, offers)
}
