package server

import (
	"time"

	"ashvale/server/internal/grid"
	"ashvale/server/internal/wallet"
)

// playerState is the authoritative record for one connected player. The
// inventory grid and purse are owned exclusively by the hub; clients only
// request mutations through hub operations.
type playerState struct {
	id        string
	inventory *grid.Grid
	purse     *wallet.Wallet
	tradeXP   int

	lastHeartbeat time.Time
	lastRTT       time.Duration
}

// ID satisfies shop.Trader.
func (p *playerState) ID() string {
	if p == nil {
		return ""
	}
	return p.id
}

// Inventory satisfies shop.Trader.
func (p *playerState) Inventory() *grid.Grid {
	if p == nil {
		return nil
	}
	return p.inventory
}

// Purse satisfies shop.Trader.
func (p *playerState) Purse() *wallet.Wallet {
	if p == nil {
		return nil
	}
	return p.purse
}

// GrantTradeExperience satisfies shop.Trader. The increment is fixed by
// the engine; curves and multipliers live outside this system.
func (p *playerState) GrantTradeExperience(points int) {
	if p == nil || points <= 0 {
		return
	}
	p.tradeXP += points
}
