// Package logging routes structured gameplay events to configurable sinks
// without blocking the simulation path. Publishers hand events to a
// buffered router; a dispatch goroutine fans them out and events are
// dropped, with accounting, rather than ever stalling the caller.
package logging

import (
	"context"
	"time"
)

// EventType names a structured event, namespaced by domain
// (for example "economy.checkout_completed").
type EventType string

// Severity orders events for filtering.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// EntityKind classifies the actor attached to an event.
type EntityKind string

const (
	EntityKindUnknown EntityKind = "unknown"
	EntityKindPlayer  EntityKind = "player"
	EntityKindVendor  EntityKind = "vendor"
	EntityKindWorld   EntityKind = "world"
)

// EntityRef identifies an actor or target by id and kind.
type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// Event is one structured record flowing through the router.
type Event struct {
	Type     EventType   `json:"type"`
	Time     time.Time   `json:"time"`
	Actor    EntityRef   `json:"actor"`
	Targets  []EntityRef `json:"targets,omitempty"`
	Severity Severity    `json:"severity"`
	Category string      `json:"category,omitempty"`
	Payload  any         `json:"payload,omitempty"`
}

const (
	CategoryEconomy = "economy"
	CategorySystem  = "system"
)

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher returns a publisher that discards everything. Core packages
// accept it so tests and tools can run without a router.
func NopPublisher() Publisher {
	return nopPublisher{}
}
