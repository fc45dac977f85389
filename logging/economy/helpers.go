package economy

import (
	"context"

	"ashvale/server/logging"
)

const (
	// EventCheckoutCompleted is emitted when a checkout commits fully.
	EventCheckoutCompleted logging.EventType = "economy.checkout_completed"
	// EventCheckoutFailed is emitted when a checkout is rejected or aborts.
	EventCheckoutFailed logging.EventType = "economy.checkout_failed"
	// EventItemGrantFailed is emitted when the server fails to add
	// already-paid-for items to an inventory.
	EventItemGrantFailed logging.EventType = "economy.item_grant_failed"
	// EventPayoutDeferred is emitted when sale proceeds are parked in a
	// vendor's pending ledger because the seller is unreachable.
	EventPayoutDeferred logging.EventType = "economy.payout_deferred"
	// EventPayoutClaimed is emitted when a seller collects pending proceeds.
	EventPayoutClaimed logging.EventType = "economy.payout_claimed"
)

// CheckoutCompletedPayload describes a committed checkout.
type CheckoutCompletedPayload struct {
	VendorID   string `json:"vendorId"`
	Lines      int    `json:"lines"`
	TotalPrice int64  `json:"totalPrice"`
}

// CheckoutFailedPayload describes a rejected checkout.
type CheckoutFailedPayload struct {
	VendorID   string `json:"vendorId,omitempty"`
	Reason     string `json:"reason"`
	TotalPrice int64  `json:"totalPrice,omitempty"`
}

// ItemGrantFailedPayload describes the grant that could not be completed.
type ItemGrantFailedPayload struct {
	ItemType  string `json:"itemType"`
	Quantity  int    `json:"quantity"`
	Remainder int    `json:"remainder"`
}

// PayoutPayload describes deferred or claimed sale proceeds.
type PayoutPayload struct {
	VendorID string `json:"vendorId"`
	Amount   int64  `json:"amount"`
}

// CheckoutCompleted publishes a successful checkout event.
func CheckoutCompleted(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload CheckoutCompletedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCheckoutCompleted,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// CheckoutFailed publishes a rejected checkout event.
func CheckoutFailed(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload CheckoutFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCheckoutFailed,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// ItemGrantFailed publishes an event for a failed inventory grant.
func ItemGrantFailed(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ItemGrantFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventItemGrantFailed,
		Actor:    actor,
		Severity: logging.SeverityError,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// PayoutDeferred publishes an event for proceeds parked in the vendor ledger.
func PayoutDeferred(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PayoutPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPayoutDeferred,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}

// PayoutClaimed publishes an event for collected proceeds.
func PayoutClaimed(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PayoutPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPayoutClaimed,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}
