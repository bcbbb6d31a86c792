package reconciler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KotFed0t/stock_sync/internal/converter/priceConverter"
	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/model/feedModel"
)

const (
	quantityMoreThanTen = ">10"
	quantityLastOne     = "1"

	stockMoreThanTen = 100
	stockLastOne     = 0
)

var ErrInvalidQuantity = errors.New("invalid feed quantity")

type Result struct {
	Stocks    []model.StockUpdate
	Prices    []model.PriceUpdate
	Unmatched []string
}

// QuantizeStock maps the supplier quantity to the stock sent to marketplaces.
// ">10" becomes 100, a single item is kept in reserve and reported as 0.
func QuantizeStock(quantity string) (int, error) {
	switch quantity {
	case quantityMoreThanTen:
		return stockMoreThanTen, nil
	case quantityLastOne:
		return stockLastOne, nil
	}

	stock, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidQuantity, quantity)
	}

	return stock, nil
}

// Reconcile matches feed records against the offer ids listed by a marketplace.
// Matched offers get the quantized stock and a price, offers missing from the feed
// are zeroed. Records whose code is not listed are ignored. knownIDs is not modified.
func Reconcile(records []feedModel.Record, knownIDs []string, currency string) (Result, error) {
	remaining := make(map[string]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		remaining[id] = struct{}{}
	}

	res := Result{
		Stocks: make([]model.StockUpdate, 0, len(remaining)),
		Prices: make([]model.PriceUpdate, 0, len(remaining)),
	}

	for _, record := range records {
		code := record.Code()
		if _, ok := remaining[code]; !ok {
			continue
		}

		stock, err := QuantizeStock(record.Quantity())
		if err != nil {
			return Result{}, fmt.Errorf("offer %s: %w", code, err)
		}

		res.Stocks = append(res.Stocks, model.StockUpdate{OfferID: code, Quantity: stock})
		res.Prices = append(res.Prices, model.PriceUpdate{
			OfferID:  code,
			Price:    priceConverter.NormalizePrice(record.Price()),
			Currency: currency,
		})

		delete(remaining, code)
	}

	for _, id := range knownIDs {
		if _, ok := remaining[id]; !ok {
			continue
		}
		res.Stocks = append(res.Stocks, model.StockUpdate{OfferID: id, Quantity: 0})
		res.Unmatched = append(res.Unmatched, id)
		// duplicated ids in the listing get a single update
		delete(remaining, id)
	}

	return res, nil
}
