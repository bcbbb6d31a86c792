package model

type StockUpdate struct {
	OfferID  string
	Quantity int
}

type PriceUpdate struct {
	OfferID  string
	Price    string
	Currency string
}
