package shop

// PriceTable holds per-item unit prices for one stock container. Prices
// are authoritative server state; client-supplied prices are never
// consulted.
type PriceTable struct {
	prices map[string]int64
}

// NewPriceTable creates an empty table.
func NewPriceTable() *PriceTable {
	return &PriceTable{prices: make(map[string]int64)}
}

// SetUnitPrice assigns the unit price for an item type. Negative prices
// are ignored.
func (t *PriceTable) SetUnitPrice(itemType string, price int64) {
	if t == nil || itemType == "" || price < 0 {
		return
	}
	t.prices[itemType] = price
}

// GetUnitPrice returns the unit price for an item type, or fallback when
// no explicit price is set.
func (t *PriceTable) GetUnitPrice(itemType string, fallback int64) int64 {
	if t == nil {
		return fallback
	}
	if price, ok := t.prices[itemType]; ok {
		return price
	}
	return fallback
}
