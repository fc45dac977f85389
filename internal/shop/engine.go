// Package shop implements the atomic multi-line checkout between a
// vendor's stock container and a buyer's inventory and purse. A checkout
// either commits every line, the full payment, and the progression
// awards, or it changes nothing observable.
package shop

import (
	"context"
	"math"
	"sort"

	"ashvale/server/internal/grid"
	"ashvale/server/logging"
	loggingeconomy "ashvale/server/logging/economy"
)

// FailureReason classifies why a checkout was rejected. The serving layer
// maps these onto client-facing feedback.
type FailureReason string

const (
	ReasonNone                    FailureReason = ""
	ReasonInvalidRequest          FailureReason = "invalid_request"
	ReasonOutOfRange              FailureReason = "out_of_range"
	ReasonOutOfStock              FailureReason = "out_of_stock"
	ReasonNotEnoughCoins          FailureReason = "not_enough_coins"
	ReasonNotEnoughInventorySpace FailureReason = "not_enough_inventory_space"
	ReasonVendorNotFound          FailureReason = "vendor_not_found"
)

// CheckoutLine is one caller-supplied request line. Nothing in it is
// trusted: slot bounds, stock identity, and prices are all resolved
// server-side.
type CheckoutLine struct {
	Slot     int `json:"slot"`
	Quantity int `json:"quantity"`
}

// Result reports the outcome of one checkout. TotalPrice carries the
// computed cost even on failure once pricing ran, so callers can show the
// shortfall.
type Result struct {
	OK         bool          `json:"ok"`
	Reason     FailureReason `json:"reason,omitempty"`
	TotalPrice int64         `json:"totalPrice"`
}

// plannedLine snapshots one stock slot at validation time. Identity and
// price come from server state; the snapshot is re-checked at commit.
type plannedLine struct {
	slot      int
	itemType  grid.ItemType
	quantity  int
	unitPrice int64
	lineTotal int64
}

// tradeExperienceAward is the fixed progression increment granted to each
// party of a committed checkout.
const tradeExperienceAward = 1

// Engine orchestrates checkouts. It holds no per-transaction state; all
// state lives in the grids, wallets, and vendors it is handed.
type Engine struct {
	publisher logging.Publisher
}

// NewEngine creates an engine publishing economy events through pub. A nil
// publisher disables event output.
func NewEngine(pub logging.Publisher) *Engine {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Engine{publisher: pub}
}

// TryCheckout validates and, if everything holds, commits a multi-line
// purchase from vendor's stock into buyer's inventory. Validation is
// read-only: any failure before the commit phase leaves every container
// untouched. The commit runs inside one batch per container so each
// mutated container emits exactly one change notification.
func (e *Engine) TryCheckout(ctx context.Context, buyer Trader, vendor *Vendor, lines []CheckoutLine) Result {
	if vendor == nil || vendor.Stock() == nil {
		return e.fail(ctx, buyer, "", ReasonVendorNotFound, 0)
	}
	if buyer == nil || buyer.Inventory() == nil || buyer.Purse() == nil {
		return e.fail(ctx, nil, vendor.ID(), ReasonInvalidRequest, 0)
	}
	if len(lines) == 0 {
		return e.fail(ctx, buyer, vendor.ID(), ReasonInvalidRequest, 0)
	}

	stock := vendor.Stock()
	for _, line := range lines {
		if line.Quantity <= 0 {
			return e.fail(ctx, buyer, vendor.ID(), ReasonInvalidRequest, 0)
		}
		if line.Slot < 0 || line.Slot >= stock.Len() {
			return e.fail(ctx, buyer, vendor.ID(), ReasonOutOfRange, 0)
		}
	}

	// Aggregate per stock slot so several lines naming the same slot are
	// judged against its stock once, not once per line.
	wanted := make(map[int]int, len(lines))
	for _, line := range lines {
		current := wanted[line.Slot]
		if current > math.MaxInt-line.Quantity {
			return e.fail(ctx, buyer, vendor.ID(), ReasonInvalidRequest, 0)
		}
		wanted[line.Slot] = current + line.Quantity
	}

	slots := make([]int, 0, len(wanted))
	for slot := range wanted {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	plan := make([]plannedLine, 0, len(slots))
	var totalPrice int64
	for _, slot := range slots {
		quantity := wanted[slot]
		stack, ok := stock.At(slot)
		if !ok || stack.Quantity < quantity {
			return e.fail(ctx, buyer, vendor.ID(), ReasonOutOfStock, totalPrice)
		}
		unitPrice := vendor.UnitPrice(stack.Type)
		if unitPrice > 0 && int64(quantity) > math.MaxInt64/unitPrice {
			return e.fail(ctx, buyer, vendor.ID(), ReasonInvalidRequest, totalPrice)
		}
		lineTotal := unitPrice * int64(quantity)
		if totalPrice > math.MaxInt64-lineTotal {
			return e.fail(ctx, buyer, vendor.ID(), ReasonInvalidRequest, totalPrice)
		}
		totalPrice += lineTotal
		plan = append(plan, plannedLine{
			slot:      slot,
			itemType:  stack.Type,
			quantity:  quantity,
			unitPrice: unitPrice,
			lineTotal: lineTotal,
		})
	}

	if buyer.Purse().Balance() < totalPrice {
		return e.fail(ctx, buyer, vendor.ID(), ReasonNotEnoughCoins, totalPrice)
	}

	// Capacity must be proven before the first mutation: the commit phase
	// has no way to undo an Add.
	inventory := buyer.Inventory()
	for _, line := range plan {
		if fits, _ := inventory.CanAdd(line.itemType, line.quantity); !fits {
			return e.fail(ctx, buyer, vendor.ID(), ReasonNotEnoughInventorySpace, totalPrice)
		}
	}

	return e.commit(ctx, buyer, vendor, plan, totalPrice)
}

func (e *Engine) commit(ctx context.Context, buyer Trader, vendor *Vendor, plan []plannedLine, totalPrice int64) Result {
	stock := vendor.Stock()
	inventory := buyer.Inventory()
	purse := buyer.Purse()
	seller := vendor.resolveSeller()

	// Redundant under the single-threaded contract, kept as a final guard:
	// the plan must still match live stock before anything mutates.
	for _, line := range plan {
		stack, ok := stock.At(line.slot)
		if !ok || stack.Type != line.itemType || stack.Quantity < line.quantity {
			return e.fail(ctx, buyer, vendor.ID(), ReasonOutOfStock, totalPrice)
		}
	}

	stock.BeginBatch()
	inventory.BeginBatch()
	purse.BeginBatch()
	if seller != nil && seller.Purse() != nil {
		seller.Purse().BeginBatch()
	}
	// Containers that never got dirty flush nothing, so ending every batch
	// with send=true yields exactly one notification per mutated container
	// even when the commit aborts partway.
	finish := func() {
		stock.EndBatch(true)
		inventory.EndBatch(true)
		purse.EndBatch(true)
		if seller != nil && seller.Purse() != nil {
			seller.Purse().EndBatch(true)
		}
	}

	for _, line := range plan {
		if !stock.TakeAt(line.slot, line.quantity) {
			finish()
			return e.fail(ctx, buyer, vendor.ID(), ReasonOutOfStock, totalPrice)
		}
	}

	if totalPrice > 0 && !purse.TrySpend(totalPrice) {
		finish()
		return e.fail(ctx, buyer, vendor.ID(), ReasonNotEnoughCoins, totalPrice)
	}

	if totalPrice > 0 {
		if seller != nil && seller.Purse() != nil {
			seller.Purse().AddCoins(totalPrice)
		} else {
			vendor.deferPayout(totalPrice)
			loggingeconomy.PayoutDeferred(ctx, e.publisher, vendorRef(vendor.ID()),
				loggingeconomy.PayoutPayload{VendorID: vendor.ID(), Amount: totalPrice})
		}
	}

	for _, line := range plan {
		if remainder := inventory.Add(line.itemType, line.quantity); remainder != 0 {
			// Capacity was proven line by line, so reaching this means the
			// pre-check and Add disagreed. Committed stock and coins stay
			// committed; the event is the trail for a bug report.
			loggingeconomy.ItemGrantFailed(ctx, e.publisher, buyerRef(buyer),
				loggingeconomy.ItemGrantFailedPayload{
					ItemType:  line.itemType,
					Quantity:  line.quantity,
					Remainder: remainder,
				})
			finish()
			return e.fail(ctx, buyer, vendor.ID(), ReasonNotEnoughInventorySpace, totalPrice)
		}
	}

	buyer.GrantTradeExperience(tradeExperienceAward)
	if seller != nil {
		seller.GrantTradeExperience(tradeExperienceAward)
	}

	finish()
	loggingeconomy.CheckoutCompleted(ctx, e.publisher, buyerRef(buyer), loggingeconomy.CheckoutCompletedPayload{
		VendorID:   vendor.ID(),
		Lines:      len(plan),
		TotalPrice: totalPrice,
	})
	return Result{OK: true, TotalPrice: totalPrice}
}

// ClaimPayout moves a vendor's pending proceeds into the seller's purse.
// It returns the claimed amount, zero when nothing was pending or the
// seller cannot receive coins.
func (e *Engine) ClaimPayout(ctx context.Context, seller Trader, vendor *Vendor) int64 {
	if vendor == nil || seller == nil || seller.Purse() == nil {
		return 0
	}
	if vendor.PendingPayout() == 0 {
		return 0
	}
	purse := seller.Purse()
	purse.BeginBatch()
	amount := vendor.drainPayout()
	purse.AddCoins(amount)
	purse.EndBatch(true)
	loggingeconomy.PayoutClaimed(ctx, e.publisher, buyerRef(seller), loggingeconomy.PayoutPayload{
		VendorID: vendor.ID(),
		Amount:   amount,
	})
	return amount
}

func (e *Engine) fail(ctx context.Context, buyer Trader, vendorID string, reason FailureReason, totalPrice int64) Result {
	loggingeconomy.CheckoutFailed(ctx, e.publisher, buyerRef(buyer), loggingeconomy.CheckoutFailedPayload{
		VendorID:   vendorID,
		Reason:     string(reason),
		TotalPrice: totalPrice,
	})
	return Result{Reason: reason, TotalPrice: totalPrice}
}

func buyerRef(buyer Trader) logging.EntityRef {
	if buyer == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	return logging.EntityRef{ID: buyer.ID(), Kind: logging.EntityKindPlayer}
}

func vendorRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindVendor}
}
