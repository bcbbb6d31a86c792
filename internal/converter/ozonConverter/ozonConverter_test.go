package ozonConverter

import (
	"testing"

	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/model/ozonModel"
	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	stocks := ConvertStocks([]model.StockUpdate{{OfferID: "A", Quantity: 100}, {OfferID: "B"}})
	assert.Equal(t, []ozonModel.Stock{{OfferID: "A", Stock: 100}, {OfferID: "B", Stock: 0}}, stocks)

	prices := ConvertPrices([]model.PriceUpdate{{OfferID: "A", Price: "5990", Currency: CurrencyRUB}})
	assert.Equal(t, []ozonModel.Price{{
		AutoActionEnabled: "UNKNOWN",
		CurrencyCode:      "RUB",
		OfferID:           "A",
		OldPrice:          "0",
		Price:             "5990",
	}}, prices)
}
