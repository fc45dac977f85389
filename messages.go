package server

import (
	"ashvale/server/internal/grid"
)

const protocolVersion = 1

type vendorListing struct {
	ID     string           `json:"id"`
	Stock  grid.Snapshot    `json:"stock"`
	Prices map[string]int64 `json:"prices"`
}

type joinResponse struct {
	Ver       int             `json:"ver"`
	ID        string          `json:"id"`
	Inventory grid.Snapshot   `json:"inventory"`
	Balance   int64           `json:"balance"`
	Vendors   []vendorListing `json:"vendors"`
}

// containerUpdateMessage carries the one snapshot a BatchScope closure
// flushed for a mutated container.
type containerUpdateMessage struct {
	Ver        int            `json:"ver"`
	Type       string         `json:"type"`
	Owner      string         `json:"owner"`
	Container  string         `json:"container"`
	Grid       *grid.Snapshot `json:"grid,omitempty"`
	Balance    *int64         `json:"balance,omitempty"`
	ServerTime int64          `json:"serverTime"`
}

const (
	messageTypeContainer = "container"

	containerInventory = "inventory"
	containerPurse     = "purse"
	containerStock     = "stock"
)

type diagnosticsPlayer struct {
	ID            string `json:"id"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
	TradeXP       int    `json:"tradeXp"`
}
