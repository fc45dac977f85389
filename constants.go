package server

import "time"

const (
	writeWait         = 10 * time.Second
	heartbeatInterval = 2 * time.Second

	inventoryWidth  = 4
	inventoryHeight = 3

	vendorStockWidth  = 6
	vendorStockHeight = 4

	seedCoins = 200

	// defaultUnitPrice applies to stocked items with no explicit price and
	// no catalog base price.
	defaultUnitPrice = 1
)

// HeartbeatInterval exposes the heartbeat cadence for the serving layer.
func HeartbeatInterval() time.Duration {
	return heartbeatInterval
}
