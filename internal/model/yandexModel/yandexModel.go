package yandexModel

const (
	StockTypeFit    = "FIT"
	StatusOK        = "OK"
	CurrencyRUR     = "RUR"
	UpdatedAtFormat = "2006-01-02T15:04:05Z"
)

type OfferMappingEntriesResponse struct {
	Status string                    `json:"status"`
	Result OfferMappingEntriesResult `json:"result"`
}

type OfferMappingEntriesResult struct {
	Paging              Paging              `json:"paging"`
	OfferMappingEntries []OfferMappingEntry `json:"offerMappingEntries"`
}

type Paging struct {
	NextPageToken string `json:"nextPageToken"`
	PrevPageToken string `json:"prevPageToken"`
}

type OfferMappingEntry struct {
	Offer Offer `json:"offer"`
}

type Offer struct {
	ShopSku string `json:"shopSku"`
	Name    string `json:"name"`
}

type StocksRequest struct {
	Skus []SkuStock `json:"skus"`
}

type SkuStock struct {
	Sku         string      `json:"sku"`
	WarehouseID int64       `json:"warehouseId"`
	Items       []StockItem `json:"items"`
}

type StockItem struct {
	Count     int    `json:"count"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

type PricesRequest struct {
	Offers []OfferPrice `json:"offers"`
}

type OfferPrice struct {
	ID    string     `json:"id"`
	Price PriceValue `json:"price"`
}

type PriceValue struct {
	Value      int64  `json:"value"`
	CurrencyID string `json:"currencyId"`
}

type StatusResponse struct {
	Status string  `json:"status"`
	Errors []Error `json:"errors"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
