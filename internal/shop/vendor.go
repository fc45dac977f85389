package shop

import (
	"math"

	"ashvale/server/internal/grid"
	"ashvale/server/internal/wallet"
)

// Trader is the opaque actor handle the engine works against: an
// inventory grid, a coin purse, and a progression hook. Both buyers and
// sellers satisfy it.
type Trader interface {
	ID() string
	Inventory() *grid.Grid
	Purse() *wallet.Wallet
	GrantTradeExperience(points int)
}

// Vendor is one stock container: the grid being sold from, its price
// table, and a ledger of sale proceeds waiting for an unreachable seller.
type Vendor struct {
	id            string
	stock         *grid.Grid
	prices        *PriceTable
	defaultPrice  int64
	pendingPayout int64
	seller        func() Trader
}

// NewVendor creates a vendor over its stock grid and price table.
// defaultPrice applies to any stocked item without an explicit price.
func NewVendor(id string, stock *grid.Grid, prices *PriceTable, defaultPrice int64) *Vendor {
	if prices == nil {
		prices = NewPriceTable()
	}
	if defaultPrice < 0 {
		defaultPrice = 0
	}
	return &Vendor{
		id:           id,
		stock:        stock,
		prices:       prices,
		defaultPrice: defaultPrice,
	}
}

// ID returns the vendor identifier.
func (v *Vendor) ID() string {
	if v == nil {
		return ""
	}
	return v.id
}

// Stock returns the grid being sold from.
func (v *Vendor) Stock() *grid.Grid {
	if v == nil {
		return nil
	}
	return v.stock
}

// Prices returns the vendor's price table.
func (v *Vendor) Prices() *PriceTable {
	if v == nil {
		return nil
	}
	return v.prices
}

// UnitPrice resolves the authoritative unit price for an item type.
func (v *Vendor) UnitPrice(itemType string) int64 {
	if v == nil {
		return 0
	}
	return v.prices.GetUnitPrice(itemType, v.defaultPrice)
}

// SetSeller installs the resolver used at commit time to find the actor
// who should receive sale proceeds. A nil resolver, or a resolver
// returning nil, routes proceeds into the pending payout ledger instead.
func (v *Vendor) SetSeller(resolve func() Trader) {
	if v == nil {
		return
	}
	v.seller = resolve
}

func (v *Vendor) resolveSeller() Trader {
	if v == nil || v.seller == nil {
		return nil
	}
	return v.seller()
}

// PendingPayout reports proceeds waiting to be claimed.
func (v *Vendor) PendingPayout() int64 {
	if v == nil {
		return 0
	}
	return v.pendingPayout
}

func (v *Vendor) deferPayout(amount int64) {
	if v == nil || amount <= 0 {
		return
	}
	if v.pendingPayout > math.MaxInt64-amount {
		v.pendingPayout = math.MaxInt64
		return
	}
	v.pendingPayout += amount
}

func (v *Vendor) drainPayout() int64 {
	if v == nil {
		return 0
	}
	amount := v.pendingPayout
	v.pendingPayout = 0
	return amount
}
