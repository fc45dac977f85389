package server

import (
	"log"
	"os"
	"sync/atomic"
)

type telemetryCounters struct {
	bytesSent          atomic.Uint64
	messagesSent       atomic.Uint64
	checkoutsCompleted atomic.Uint64
	checkoutsFailed    atomic.Uint64
	payoutsClaimed     atomic.Uint64
	debug              bool
}

type telemetrySnapshot struct {
	BytesSent          uint64 `json:"bytesSent"`
	MessagesSent       uint64 `json:"messagesSent"`
	CheckoutsCompleted uint64 `json:"checkoutsCompleted"`
	CheckoutsFailed    uint64 `json:"checkoutsFailed"`
	PayoutsClaimed     uint64 `json:"payoutsClaimed"`
}

func newTelemetryCounters() *telemetryCounters {
	t := &telemetryCounters{}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		t.debug = true
	}
	return t
}

func (t *telemetryCounters) RecordBroadcast(bytes int) {
	if bytes < 0 {
		bytes = 0
	}
	t.bytesSent.Add(uint64(bytes))
	t.messagesSent.Add(1)
	if t.debug {
		log.Printf("telemetry broadcast bytes=%d totalBytes=%d totalMessages=%d",
			bytes, t.bytesSent.Load(), t.messagesSent.Load())
	}
}

func (t *telemetryCounters) RecordCheckout(ok bool) {
	if ok {
		t.checkoutsCompleted.Add(1)
		return
	}
	t.checkoutsFailed.Add(1)
}

func (t *telemetryCounters) RecordPayoutClaim() {
	t.payoutsClaimed.Add(1)
}

func (t *telemetryCounters) Snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		BytesSent:          t.bytesSent.Load(),
		MessagesSent:       t.messagesSent.Load(),
		CheckoutsCompleted: t.checkoutsCompleted.Load(),
		CheckoutsFailed:    t.checkoutsFailed.Load(),
		PayoutsClaimed:     t.payoutsClaimed.Load(),
	}
}
