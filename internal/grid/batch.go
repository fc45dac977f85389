package grid

// notifier coalesces change notifications for a single container. Outside
// any batch every mutation notifies immediately; inside a batch mutations
// only mark the container dirty and the outermost End decides whether a
// single notification is flushed or the pending mark is discarded.
type notifier struct {
	fire  func()
	depth int
	dirty bool
}

func (n *notifier) mark() {
	if n.depth > 0 {
		n.dirty = true
		return
	}
	if n.fire != nil {
		n.fire()
	}
}

func (n *notifier) begin() {
	n.depth++
}

func (n *notifier) end(send bool) {
	if n.depth == 0 {
		return
	}
	n.depth--
	if n.depth > 0 {
		return
	}
	dirty := n.dirty
	n.dirty = false
	if send && dirty && n.fire != nil {
		n.fire()
	}
}

// Observe registers the function invoked with a fresh snapshot whenever
// the grid changes. At most one observer is supported, matching the
// authoritative-owner model: the serving layer installs it once.
func (g *Grid) Observe(fn func(Snapshot)) {
	if g == nil {
		return
	}
	if fn == nil {
		g.notifier.fire = nil
		return
	}
	g.notifier.fire = func() { fn(g.Snapshot()) }
}

// BeginBatch suspends change notifications until the matching EndBatch.
func (g *Grid) BeginBatch() {
	if g == nil {
		return
	}
	g.notifier.begin()
}

// EndBatch closes the innermost batch. When the outermost batch closes
// with send=true and at least one mutation occurred inside it, exactly one
// notification is emitted; send=false discards the pending mark silently.
func (g *Grid) EndBatch(send bool) {
	if g == nil {
		return
	}
	g.notifier.end(send)
}

func (g *Grid) changed() {
	g.notifier.mark()
}
