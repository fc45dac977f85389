package grid

// SlotSnapshot captures one occupied slot for replication.
type SlotSnapshot struct {
	Slot int       `json:"slot"`
	Item ItemStack `json:"item"`
}

// Snapshot is a serializable copy of the full grid contents. Only occupied
// slots are listed; everything else is empty by omission.
type Snapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Slots  []SlotSnapshot `json:"slots"`
}

// Snapshot copies the current grid contents for broadcasting. The result
// shares no memory with the grid.
func (g *Grid) Snapshot() Snapshot {
	if g == nil {
		return Snapshot{}
	}
	snapshot := Snapshot{
		Width:  g.width,
		Height: g.height,
		Slots:  make([]SlotSnapshot, 0, len(g.slots)),
	}
	for i := range g.slots {
		if g.slots[i].empty() {
			continue
		}
		snapshot.Slots = append(snapshot.Slots, SlotSnapshot{Slot: i, Item: g.slots[i].item})
	}
	return snapshot
}

// Equal reports whether two snapshots describe identical contents.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Width != other.Width || s.Height != other.Height {
		return false
	}
	if len(s.Slots) != len(other.Slots) {
		return false
	}
	for i := range s.Slots {
		if s.Slots[i] != other.Slots[i] {
			return false
		}
	}
	return true
}
