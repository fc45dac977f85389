package net

import (
	"context"
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	server "ashvale/server"
	"ashvale/server/internal/shop"
)

type clientMessage struct {
	Ver    int                 `json:"ver,omitempty"`
	Type   string              `json:"type"`
	Vendor string              `json:"vendor,omitempty"`
	Lines  []shop.CheckoutLine `json:"lines,omitempty"`
	From   int                 `json:"from,omitempty"`
	To     int                 `json:"to,omitempty"`
	Slot   int                 `json:"slot,omitempty"`
	Amount int                 `json:"amount,omitempty"`
	SentAt int64               `json:"sentAt,omitempty"`
}

type checkoutResultMessage struct {
	Ver        int                `json:"ver"`
	Type       string             `json:"type"`
	Vendor     string             `json:"vendor"`
	OK         bool               `json:"ok"`
	Reason     shop.FailureReason `json:"reason,omitempty"`
	TotalPrice int64              `json:"totalPrice"`
}

type commandResultMessage struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	OK   bool   `json:"ok"`
	Slot int    `json:"slot,omitempty"`
}

type payoutResultMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Vendor string `json:"vendor"`
	Amount int64  `json:"amount"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

type session interface {
	WriteMessage(data []byte) error
}

type wsHandler struct {
	hub      *server.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func newWSHandler(hub *server.Hub, logger *log.Logger) *wsHandler {
	return &wsHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

func (h *wsHandler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	playerID := r.URL.Query().Get("id")
	if playerID == "" {
		httpError(w, "missing id", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", playerID, err)
		return
	}

	sub, ok := h.hub.Subscribe(playerID, conn)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	h.readLoop(playerID, conn, sub)
}

func (h *wsHandler) readLoop(playerID string, conn *websocket.Conn, sub session) {
	defer h.hub.Disconnect(playerID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Printf("malformed message from %s: %v", playerID, err)
			continue
		}
		h.dispatch(playerID, sub, msg)
	}
}

func (h *wsHandler) dispatch(playerID string, sub session, msg clientMessage) {
	switch msg.Type {
	case "buy":
		result := h.hub.Checkout(context.Background(), playerID, msg.Vendor, msg.Lines)
		h.send(sub, checkoutResultMessage{
			Ver:        1,
			Type:       "checkout_result",
			Vendor:     msg.Vendor,
			OK:         result.OK,
			Reason:     result.Reason,
			TotalPrice: result.TotalPrice,
		})
	case "move_slot":
		ok := h.hub.MoveSlot(playerID, msg.From, msg.To)
		h.send(sub, commandResultMessage{Ver: 1, Type: "move_result", OK: ok})
	case "split":
		newSlot, ok := h.hub.SplitStack(playerID, msg.Slot, msg.Amount)
		h.send(sub, commandResultMessage{Ver: 1, Type: "split_result", OK: ok, Slot: newSlot})
	case "claim_payout":
		amount := h.hub.ClaimPayout(context.Background(), playerID, msg.Vendor)
		h.send(sub, payoutResultMessage{Ver: 1, Type: "payout_result", Vendor: msg.Vendor, Amount: amount})
	case "heartbeat":
		now := time.Now()
		var rtt time.Duration
		if msg.SentAt > 0 {
			rtt = now.Sub(time.UnixMilli(msg.SentAt))
		}
		h.hub.Heartbeat(playerID, rtt)
		h.send(sub, heartbeatMessage{
			Ver:        1,
			Type:       "heartbeat",
			ServerTime: now.UnixMilli(),
			ClientTime: msg.SentAt,
			RTTMillis:  rtt.Milliseconds(),
		})
	default:
		h.logger.Printf("unknown message type %q from %s", msg.Type, playerID)
	}
}

func (h *wsHandler) send(sub session, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to encode %T: %v", payload, err)
		return
	}
	if err := sub.WriteMessage(data); err != nil {
		h.logger.Printf("write failed: %v", err)
	}
}
