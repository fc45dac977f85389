package shop

import (
	"math"
	"testing"
)

func TestPriceTableFallback(t *testing.T) {
	prices := NewPriceTable()
	prices.SetUnitPrice("stone", 5)

	if got := prices.GetUnitPrice("stone", 1); got != 5 {
		t.Fatalf("expected explicit price 5, got %d", got)
	}
	if got := prices.GetUnitPrice("wood", 1); got != 1 {
		t.Fatalf("expected fallback price 1, got %d", got)
	}
}

func TestPriceTableIgnoresNegativePrice(t *testing.T) {
	prices := NewPriceTable()
	prices.SetUnitPrice("stone", 5)
	prices.SetUnitPrice("stone", -3)

	if got := prices.GetUnitPrice("stone", 1); got != 5 {
		t.Fatalf("expected negative update ignored, got %d", got)
	}
}

func TestVendorPendingPayoutSaturates(t *testing.T) {
	vendor := NewVendor("vendor-1", nil, nil, 1)
	vendor.deferPayout(math.MaxInt64 - 10)
	vendor.deferPayout(100)

	if vendor.PendingPayout() != math.MaxInt64 {
		t.Fatalf("expected saturation at MaxInt64, got %d", vendor.PendingPayout())
	}
	if got := vendor.drainPayout(); got != math.MaxInt64 {
		t.Fatalf("expected drain to return full ledger, got %d", got)
	}
	if vendor.PendingPayout() != 0 {
		t.Fatalf("expected ledger cleared after drain, got %d", vendor.PendingPayout())
	}
}

func TestVendorSellerResolution(t *testing.T) {
	vendor := NewVendor("vendor-1", nil, nil, 1)
	if vendor.resolveSeller() != nil {
		t.Fatalf("expected nil seller without a resolver")
	}

	trader := &testTrader{id: "player-1"}
	vendor.SetSeller(func() Trader { return trader })
	if got := vendor.resolveSeller(); got != Trader(trader) {
		t.Fatalf("expected resolver to return the installed trader")
	}

	vendor.SetSeller(func() Trader { return nil })
	if vendor.resolveSeller() != nil {
		t.Fatalf("expected resolver returning nil to propagate")
	}
}
