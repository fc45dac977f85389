// Package server owns the authoritative game state for the trading post:
// player inventories and purses, vendor stock, and the checkout engine.
// Every public operation runs to completion under the hub lock, which is
// the serialization contract the core containers rely on.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"ashvale/server/internal/grid"
	"ashvale/server/internal/shop"
	"ashvale/server/internal/wallet"
	"ashvale/server/logging"
)

// Hub owns all live players, vendors, and websocket subscribers.
type Hub struct {
	mu           sync.Mutex
	players      map[string]*playerState
	vendors      map[string]*shop.Vendor
	vendorOwners map[string]string
	subscribers  map[string]*subscriber
	nextID       atomic.Uint64

	engine    *shop.Engine
	publisher logging.Publisher
	telemetry *telemetryCounters

	// pending collects the single snapshot each BatchScope closure flushed
	// for a mutated container during the current operation. It is drained
	// and broadcast when the operation finishes.
	pending []containerUpdateMessage
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteMessage serializes writes to the underlying connection so the
// broadcast path and the session read loop never interleave frames.
func (s *subscriber) WriteMessage(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub creates a hub with an empty player roster and the default
// quartermaster vendor stocked from the item catalog.
func NewHub(publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	hub := &Hub{
		players:      make(map[string]*playerState),
		vendors:      make(map[string]*shop.Vendor),
		vendorOwners: make(map[string]string),
		subscribers:  make(map[string]*subscriber),
		engine:       shop.NewEngine(publisher),
		publisher:    publisher,
		telemetry:    newTelemetryCounters(),
	}
	hub.seedQuartermaster()
	return hub
}

const quartermasterID = "vendor-quartermaster"

func (h *Hub) seedQuartermaster() {
	stock := grid.New(vendorStockWidth, vendorStockHeight, Catalog())
	prices := shop.NewPriceTable()
	for _, def := range ItemDefinitions() {
		prices.SetUnitPrice(def.ID, def.BasePrice)
	}
	vendor := shop.NewVendor(quartermasterID, stock, prices, defaultUnitPrice)

	stock.Add(ItemTypeWood, 120)
	stock.Add(ItemTypeStone, 80)
	stock.Add(ItemTypePlank, 40)
	stock.Add(ItemTypeRope, 25)
	stock.Add(ItemTypeHealthPotion, 8)
	stock.Add(ItemTypeCampfireKit, 3)

	h.registerVendorLocked(vendor)
}

func (h *Hub) registerVendorLocked(vendor *shop.Vendor) {
	id := vendor.ID()
	h.vendors[id] = vendor
	h.watchGrid(id, containerStock, vendor.Stock())
}

// AddVendor registers an additional vendor. Intended for world bootstrap
// and tests; the vendor's stock grid joins the replication surface.
func (h *Hub) AddVendor(vendor *shop.Vendor) {
	if vendor == nil || vendor.ID() == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registerVendorLocked(vendor)
}

// SetVendorOwner marks a player as the vendor's seller. While the owner is
// connected, sale proceeds are credited straight to their purse; otherwise
// they accumulate in the vendor's pending payout ledger.
func (h *Hub) SetVendorOwner(vendorID, playerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	vendor, ok := h.vendors[vendorID]
	if !ok {
		return false
	}
	h.vendorOwners[vendorID] = playerID
	vendor.SetSeller(func() shop.Trader {
		owner, ok := h.players[h.vendorOwners[vendorID]]
		if !ok {
			return nil
		}
		return owner
	})
	return true
}

func (h *Hub) watchGrid(owner, container string, g *grid.Grid) {
	g.Observe(func(snapshot grid.Snapshot) {
		h.pending = append(h.pending, containerUpdateMessage{
			Ver:       protocolVersion,
			Type:      messageTypeContainer,
			Owner:     owner,
			Container: container,
			Grid:      &snapshot,
		})
	})
}

func (h *Hub) watchWallet(owner string, w *wallet.Wallet) {
	w.Observe(func(balance int64) {
		h.pending = append(h.pending, containerUpdateMessage{
			Ver:       protocolVersion,
			Type:      messageTypeContainer,
			Owner:     owner,
			Container: containerPurse,
			Balance:   &balance,
		})
	})
}

// Join registers a new player with a seeded inventory and purse and
// returns the initial state bundle.
func (h *Hub) Join() joinResponse {
	id := h.nextID.Add(1)
	playerID := fmt.Sprintf("player-%d", id)

	inventory := grid.New(inventoryWidth, inventoryHeight, Catalog())
	inventory.Add(ItemTypeWood, 10)
	inventory.Add(ItemTypeHealthPotion, 1)
	purse := wallet.New(seedCoins)

	player := &playerState{
		id:            playerID,
		inventory:     inventory,
		purse:         purse,
		lastHeartbeat: time.Now(),
	}

	h.mu.Lock()
	h.players[playerID] = player
	h.watchGrid(playerID, containerInventory, inventory)
	h.watchWallet(playerID, purse)
	response := joinResponse{
		Ver:       protocolVersion,
		ID:        playerID,
		Inventory: inventory.Snapshot(),
		Balance:   purse.Balance(),
		Vendors:   h.vendorListingsLocked(),
	}
	h.mu.Unlock()
	return response
}

func (h *Hub) vendorListingsLocked() []vendorListing {
	listings := make([]vendorListing, 0, len(h.vendors))
	for id, vendor := range h.vendors {
		prices := make(map[string]int64)
		for _, def := range ItemDefinitions() {
			prices[def.ID] = vendor.UnitPrice(def.ID)
		}
		listings = append(listings, vendorListing{
			ID:     id,
			Stock:  vendor.Stock().Snapshot(),
			Prices: prices,
		})
	}
	return listings
}

// Subscribe associates a websocket connection with an existing player.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	player, ok := h.players[playerID]
	if !ok {
		return nil, false
	}
	player.lastHeartbeat = time.Now()

	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}
	sub := &subscriber{conn: conn}
	h.subscribers[playerID] = sub
	return sub, true
}

// Disconnect removes a player and closes any active subscription. The
// player's containers leave the replication surface with them.
func (h *Hub) Disconnect(playerID string) {
	h.mu.Lock()
	sub, subOK := h.subscribers[playerID]
	if subOK {
		delete(h.subscribers, playerID)
	}
	delete(h.players, playerID)
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
}

// Checkout runs one atomic purchase for playerID against vendorID and
// broadcasts whatever container snapshots the commit flushed.
func (h *Hub) Checkout(ctx context.Context, playerID, vendorID string, lines []shop.CheckoutLine) shop.Result {
	h.mu.Lock()
	player := h.players[playerID]
	vendor := h.vendors[vendorID]
	result := h.engine.TryCheckout(ctx, traderOrNil(player), vendor, lines)
	updates := h.drainPendingLocked()
	h.mu.Unlock()

	h.telemetry.RecordCheckout(result.OK)
	h.broadcastUpdates(updates)
	return result
}

// ClaimPayout moves a vendor's pending proceeds to the claiming player.
func (h *Hub) ClaimPayout(ctx context.Context, playerID, vendorID string) int64 {
	h.mu.Lock()
	player := h.players[playerID]
	vendor := h.vendors[vendorID]
	var amount int64
	if player != nil && vendor != nil {
		amount = h.engine.ClaimPayout(ctx, player, vendor)
	}
	updates := h.drainPendingLocked()
	h.mu.Unlock()

	if amount > 0 {
		h.telemetry.RecordPayoutClaim()
	}
	h.broadcastUpdates(updates)
	return amount
}

// MoveSlot relocates, merges, or swaps two inventory slots for a player.
func (h *Hub) MoveSlot(playerID string, from, to int) bool {
	h.mu.Lock()
	player := h.players[playerID]
	ok := player != nil && player.inventory.MoveOrSwap(from, to)
	updates := h.drainPendingLocked()
	h.mu.Unlock()

	h.broadcastUpdates(updates)
	return ok
}

// SplitStack splits amount units off an inventory stack into a free slot.
func (h *Hub) SplitStack(playerID string, slot, amount int) (int, bool) {
	h.mu.Lock()
	player := h.players[playerID]
	var newIndex int
	ok := false
	if player != nil {
		newIndex, ok = player.inventory.Split(slot, amount)
	}
	updates := h.drainPendingLocked()
	h.mu.Unlock()

	h.broadcastUpdates(updates)
	return newIndex, ok
}

// Heartbeat refreshes a player's liveness metadata.
func (h *Hub) Heartbeat(playerID string, rtt time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	player, ok := h.players[playerID]
	if !ok {
		return
	}
	player.lastHeartbeat = time.Now()
	if rtt > 0 {
		player.lastRTT = rtt
	}
}

func traderOrNil(player *playerState) shop.Trader {
	if player == nil {
		return nil
	}
	return player
}

func (h *Hub) drainPendingLocked() []containerUpdateMessage {
	if len(h.pending) == 0 {
		return nil
	}
	drained := make([]containerUpdateMessage, len(h.pending))
	copy(drained, h.pending)
	h.pending = h.pending[:0]
	now := time.Now().UnixMilli()
	for i := range drained {
		drained[i].ServerTime = now
	}
	return drained
}

func (h *Hub) broadcastUpdates(updates []containerUpdateMessage) {
	if len(updates) == 0 {
		return
	}
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, update := range updates {
		data, err := json.Marshal(update)
		if err != nil {
			continue
		}
		for _, sub := range subs {
			if err := sub.WriteMessage(data); err != nil {
				continue
			}
			h.telemetry.RecordBroadcast(len(data))
		}
	}
}

// DiagnosticsSnapshot reports per-player liveness for the diagnostics
// endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsPlayer {
	h.mu.Lock()
	defer h.mu.Unlock()
	players := make([]diagnosticsPlayer, 0, len(h.players))
	for _, player := range h.players {
		players = append(players, diagnosticsPlayer{
			ID:            player.id,
			LastHeartbeat: player.lastHeartbeat.UnixMilli(),
			RTTMillis:     player.lastRTT.Milliseconds(),
			TradeXP:       player.tradeXP,
		})
	}
	return players
}

// TelemetrySnapshot reports cumulative hub counters.
func (h *Hub) TelemetrySnapshot() telemetrySnapshot {
	return h.telemetry.Snapshot()
}
