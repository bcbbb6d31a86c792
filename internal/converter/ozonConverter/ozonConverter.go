package ozonConverter

import (
	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/model/ozonModel"
)

const (
	CurrencyRUB = "RUB"

	autoActionUnknown = "UNKNOWN"
	noOldPrice        = "0"
)

func ConvertStocks(stocks []model.StockUpdate) []ozonModel.Stock {
	res := make([]ozonModel.Stock, 0, len(stocks))
	for _, s := range stocks {
		res = append(res, ozonModel.Stock{OfferID: s.OfferID, Stock: s.Quantity})
	}
	return res
}

func ConvertPrices(prices []model.PriceUpdate) []ozonModel.Price {
	res := make([]ozonModel.Price, 0, len(prices))
	for _, p := range prices {
		res = append(res, ozonModel.Price{
			AutoActionEnabled: autoActionUnknown,
			CurrencyCode:      p.Currency,
			OfferID:           p.OfferID,
			OldPrice:          noOldPrice,
			Price:             p.Price,
		})
	}
	return res
}
