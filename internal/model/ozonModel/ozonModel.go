package ozonModel

type ProductListRequest struct {
	Filter ProductListFilter `json:"filter"`
	LastID string            `json:"last_id"`
	Limit  int               `json:"limit"`
}

type ProductListFilter struct {
	Visibility string `json:"visibility"`
}

type ProductListResponse struct {
	Result ProductListResult `json:"result"`
}

type ProductListResult struct {
	Items  []ProductListItem `json:"items"`
	Total  int               `json:"total"`
	LastID string            `json:"last_id"`
}

type ProductListItem struct {
	ProductID int64  `json:"product_id"`
	OfferID   string `json:"offer_id"`
}

type Stock struct {
	OfferID string `json:"offer_id"`
	Stock   int    `json:"stock"`
}

type StocksRequest struct {
	Stocks []Stock `json:"stocks"`
}

type Price struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

type PricesRequest struct {
	Prices []Price `json:"prices"`
}

// ImportResponse is returned by both stocks and prices import endpoints.
type ImportResponse struct {
	Result []ImportResult `json:"result"`
}

type ImportResult struct {
	ProductID int64         `json:"product_id"`
	OfferID   string        `json:"offer_id"`
	Updated   bool          `json:"updated"`
	Errors    []ImportError `json:"errors"`
}

type ImportError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
