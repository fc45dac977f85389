package logging

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Sink receives routed events. Write errors are reported through the
// router's fallback logger; a failing sink never stops the others.
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

// NamedSink pairs a sink with the name it is enabled under.
type NamedSink struct {
	Name string
	Sink Sink
}

// Router buffers published events and dispatches them to every enabled
// sink from a single goroutine. Publish never blocks: when the buffer is
// full the event is dropped and counted.
type Router struct {
	cfg      Config
	queue    chan Event
	sinks    []NamedSink
	fallback *log.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	closed   atomic.Bool

	eventsTotal  atomic.Uint64
	droppedTotal atomic.Uint64
	lastDropWarn atomic.Int64
}

// RouterStats summarizes router throughput for diagnostics.
type RouterStats struct {
	EventsTotal  uint64 `json:"eventsTotal"`
	DroppedTotal uint64 `json:"droppedTotal"`
}

// NewRouter starts a router over the provided sinks. Nil sinks are skipped.
func NewRouter(cfg Config, sinks []NamedSink) *Router {
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 256
	}
	r := &Router{
		cfg:      cfg,
		queue:    make(chan Event, buffer),
		fallback: log.New(os.Stderr, "[logging] ", log.LstdFlags),
		done:     make(chan struct{}),
	}
	for _, named := range sinks {
		if named.Sink == nil {
			continue
		}
		r.sinks = append(r.sinks, named)
	}
	r.wg.Add(1)
	go r.dispatch()
	return r
}

// Publish satisfies Publisher. Events below the configured severity or
// with an empty type are discarded silently.
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || event.Severity < r.cfg.MinimumSeverity {
		return
	}
	if r.closed.Load() {
		return
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	select {
	case r.queue <- event:
	default:
		r.noteDrop(event)
	}
}

func (r *Router) dispatch() {
	defer r.wg.Done()
	for {
		select {
		case event := <-r.queue:
			r.forward(event)
		case <-r.done:
			for {
				select {
				case event := <-r.queue:
					r.forward(event)
				default:
					return
				}
			}
		}
	}
}

func (r *Router) forward(event Event) {
	r.eventsTotal.Add(1)
	for _, named := range r.sinks {
		if err := named.Sink.Write(event); err != nil {
			r.fallback.Printf("sink %s write failed: %v", named.Name, err)
		}
	}
}

func (r *Router) noteDrop(event Event) {
	r.droppedTotal.Add(1)
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	now := time.Now().UnixNano()
	last := r.lastDropWarn.Load()
	if last == 0 || now-last >= interval.Nanoseconds() {
		if r.lastDropWarn.CompareAndSwap(last, now) {
			r.fallback.Printf("buffer full, dropping event type=%s", event.Type)
		}
	}
}

// Close drains the queue and closes every sink. Calling Close twice is a
// no-op returning nil.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.done)

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, named := range r.sinks {
		if err := named.Sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats reports cumulative router counters.
func (r *Router) Stats() RouterStats {
	return RouterStats{
		EventsTotal:  r.eventsTotal.Load(),
		DroppedTotal: r.droppedTotal.Load(),
	}
}

// Sink returns the enabled sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, named := range r.sinks {
		if named.Name == name {
			return named.Sink
		}
	}
	return nil
}
