package yandexConverter

import (
	"fmt"
	"time"

	"github.com/KotFed0t/stock_sync/internal/converter/priceConverter"
	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/model/yandexModel"
)

// ConvertStocks stamps every item with the same updatedAt, truncated to seconds in UTC.
func ConvertStocks(stocks []model.StockUpdate, warehouseID int64, updatedAt time.Time) []yandexModel.SkuStock {
	date := updatedAt.UTC().Format(yandexModel.UpdatedAtFormat)

	res := make([]yandexModel.SkuStock, 0, len(stocks))
	for _, s := range stocks {
		res = append(res, yandexModel.SkuStock{
			Sku:         s.OfferID,
			WarehouseID: warehouseID,
			Items: []yandexModel.StockItem{
				{
					Count:     s.Quantity,
					Type:      yandexModel.StockTypeFit,
					UpdatedAt: date,
				},
			},
		})
	}
	return res
}

func ConvertPrices(prices []model.PriceUpdate) ([]yandexModel.OfferPrice, error) {
	res := make([]yandexModel.OfferPrice, 0, len(prices))
	for _, p := range prices {
		value, err := priceConverter.PriceValue(p.Price)
		if err != nil {
			return nil, fmt.Errorf("offer %s: %w", p.OfferID, err)
		}

		res = append(res, yandexModel.OfferPrice{
			ID: p.OfferID,
			Price: yandexModel.PriceValue{
				Value:      value.IntPart(),
				CurrencyID: p.Currency,
			},
		})
	}
	return res, nil
}
