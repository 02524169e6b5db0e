package model

// StockDecrement targets one (product, color, size) tuple at checkout.
type StockDecrement struct {
	ProductID uint64
	Color     string
	Size      string
	Quantity  int
}
