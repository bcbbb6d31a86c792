package feedModel

const (
	ColumnCode     = "Код"
	ColumnQuantity = "Количество"
	ColumnPrice    = "Цена"
)

// Record is one data row of the supplier feed keyed by header name.
// Missing cells are stored as empty strings.
type Record map[string]string

func (r Record) Code() string {
	return r[ColumnCode]
}

func (r Record) Quantity() string {
	return r[ColumnQuantity]
}

func (r Record) Price() string {
	return r[ColumnPrice]
}
