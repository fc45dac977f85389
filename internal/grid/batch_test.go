package grid

import "testing"

func TestGridNotifiesImmediatelyOutsideBatch(t *testing.T) {
	g := newTestGrid(t)
	notifications := 0
	g.Observe(func(Snapshot) { notifications++ })

	g.Add("wood", 10)
	g.Add("wood", 10)
	if notifications != 2 {
		t.Fatalf("expected 2 notifications outside a batch, got %d", notifications)
	}
}

func TestGridBatchCoalescesToOneNotification(t *testing.T) {
	g := newTestGrid(t)
	var snapshots []Snapshot
	g.Observe(func(s Snapshot) { snapshots = append(snapshots, s) })

	g.BeginBatch()
	g.Add("wood", 10)
	g.Add("stone", 20)
	g.Remove("wood", 5)
	g.EndBatch(true)

	if len(snapshots) != 1 {
		t.Fatalf("expected exactly 1 notification for the batch, got %d", len(snapshots))
	}
	// The flushed snapshot reflects the final state, not intermediates.
	final := snapshots[0]
	if len(final.Slots) != 2 {
		t.Fatalf("expected 2 occupied slots in flushed snapshot, got %d", len(final.Slots))
	}
	if final.Slots[0].Item.Quantity != 5 {
		t.Fatalf("expected flushed wood quantity 5, got %d", final.Slots[0].Item.Quantity)
	}
}

func TestGridBatchDiscardsOnEndFalse(t *testing.T) {
	g := newTestGrid(t)
	notifications := 0
	g.Observe(func(Snapshot) { notifications++ })

	g.BeginBatch()
	g.Add("wood", 10)
	g.EndBatch(false)

	if notifications != 0 {
		t.Fatalf("expected no notification after End(false), got %d", notifications)
	}

	// The discard clears the pending mark entirely: a later clean batch
	// with no mutations stays silent.
	g.BeginBatch()
	g.EndBatch(true)
	if notifications != 0 {
		t.Fatalf("expected no notification from an empty batch, got %d", notifications)
	}
}

func TestGridBatchWithoutMutationSendsNothing(t *testing.T) {
	g := newTestGrid(t)
	g.Add("wood", 10)
	notifications := 0
	g.Observe(func(Snapshot) { notifications++ })

	g.BeginBatch()
	_, _ = g.At(0)
	_ = g.Count("wood")
	g.EndBatch(true)

	if notifications != 0 {
		t.Fatalf("expected read-only batch to emit nothing, got %d", notifications)
	}
}

func TestGridNestedBatchesFlushOnceAtOutermostEnd(t *testing.T) {
	g := newTestGrid(t)
	notifications := 0
	g.Observe(func(Snapshot) { notifications++ })

	g.BeginBatch()
	g.Add("wood", 10)
	g.BeginBatch()
	g.Add("stone", 5)
	g.EndBatch(true)
	if notifications != 0 {
		t.Fatalf("expected inner EndBatch to defer to the outermost, got %d notifications", notifications)
	}
	g.EndBatch(true)

	if notifications != 1 {
		t.Fatalf("expected one notification at outermost EndBatch, got %d", notifications)
	}
}

func TestGridFailedMutationsDoNotMarkBatchDirty(t *testing.T) {
	g := newTestGrid(t)
	g.Add("wood", 10)
	notifications := 0
	g.Observe(func(Snapshot) { notifications++ })

	g.BeginBatch()
	if g.Remove("wood", 99) {
		t.Fatalf("expected oversized removal to fail")
	}
	if g.MoveOrSwap(5, 6) {
		t.Fatalf("expected move of empty slot to fail")
	}
	if g.TakeAt(3, 1) {
		t.Fatalf("expected TakeAt on empty slot to fail")
	}
	g.EndBatch(true)

	if notifications != 0 {
		t.Fatalf("expected failed mutations to emit nothing, got %d", notifications)
	}
}
