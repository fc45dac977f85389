package grid

// ItemType identifies an item kind.
type ItemType = string

// ItemStack is a quantity of a single item type.
type ItemStack struct {
	Type     ItemType `json:"type"`
	Quantity int      `json:"quantity"`
}

// Catalog resolves item metadata for stacking decisions. Lookups for
// unknown item types must report ok=false so callers fail closed.
type Catalog interface {
	TryGetMaxStack(itemType ItemType) (maxStack int, ok bool)
}

type slot struct {
	item ItemStack
}

func (s *slot) empty() bool {
	return s.item.Quantity <= 0
}

func (s *slot) clear() {
	s.item = ItemStack{}
}

// Grid is a fixed-capacity stack container. The slot array is sized at
// construction and never grows or shrinks; only slot contents change.
// All multi-slot scans proceed in ascending slot index order so outcomes
// are deterministic regardless of insertion history.
type Grid struct {
	width   int
	height  int
	slots   []slot
	catalog Catalog

	notifier notifier
}

// New creates an empty width×height grid backed by the provided catalog.
func New(width, height int, catalog Catalog) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:   width,
		height:  height,
		slots:   make([]slot, width*height),
		catalog: catalog,
	}
}

// Width reports the grid's column count.
func (g *Grid) Width() int { return g.width }

// Height reports the grid's row count.
func (g *Grid) Height() int { return g.height }

// Len reports the fixed slot count.
func (g *Grid) Len() int { return len(g.slots) }

// At returns the stack stored at index. ok is false when the index is out
// of range or the slot is empty.
func (g *Grid) At(index int) (ItemStack, bool) {
	if g == nil || index < 0 || index >= len(g.slots) {
		return ItemStack{}, false
	}
	if g.slots[index].empty() {
		return ItemStack{}, false
	}
	return g.slots[index].item, true
}

// Count sums the stored quantity of itemType across all slots.
func (g *Grid) Count(itemType ItemType) int {
	if g == nil {
		return 0
	}
	total := 0
	for i := range g.slots {
		if !g.slots[i].empty() && g.slots[i].item.Type == itemType {
			total += g.slots[i].item.Quantity
		}
	}
	return total
}

func (g *Grid) maxStack(itemType ItemType) (int, bool) {
	if g.catalog == nil {
		return 0, false
	}
	max, ok := g.catalog.TryGetMaxStack(itemType)
	if !ok || max <= 0 {
		return 0, false
	}
	return max, true
}

// CanAdd simulates Add without mutating. It must agree exactly with Add:
// fits is true iff Add would return remainder 0, and remainder matches the
// quantity Add would leave over. Unknown item types fail closed.
func (g *Grid) CanAdd(itemType ItemType, quantity int) (bool, int) {
	if g == nil || quantity <= 0 {
		return false, quantity
	}
	max, ok := g.maxStack(itemType)
	if !ok {
		return false, quantity
	}

	remaining := quantity
	for i := range g.slots {
		if g.slots[i].empty() || g.slots[i].item.Type != itemType {
			continue
		}
		remaining -= max - g.slots[i].item.Quantity
		if remaining <= 0 {
			return true, 0
		}
	}
	for i := range g.slots {
		if !g.slots[i].empty() {
			continue
		}
		remaining -= max
		if remaining <= 0 {
			return true, 0
		}
	}
	return false, remaining
}

// Add stores quantity units of itemType, topping up existing stacks in
// ascending index order before opening new stacks in empty slots. It
// returns the quantity that did not fit. Unknown item types are a no-op
// returning the full quantity.
func (g *Grid) Add(itemType ItemType, quantity int) int {
	if g == nil || quantity <= 0 {
		return quantity
	}
	max, ok := g.maxStack(itemType)
	if !ok {
		return quantity
	}

	remaining := quantity
	mutated := false
	for i := range g.slots {
		if remaining <= 0 {
			break
		}
		if g.slots[i].empty() || g.slots[i].item.Type != itemType {
			continue
		}
		room := max - g.slots[i].item.Quantity
		if room <= 0 {
			continue
		}
		if room > remaining {
			room = remaining
		}
		g.slots[i].item.Quantity += room
		remaining -= room
		mutated = true
	}
	for i := range g.slots {
		if remaining <= 0 {
			break
		}
		if !g.slots[i].empty() {
			continue
		}
		placed := max
		if placed > remaining {
			placed = remaining
		}
		g.slots[i].item = ItemStack{Type: itemType, Quantity: placed}
		remaining -= placed
		mutated = true
	}
	if mutated {
		g.changed()
	}
	return remaining
}

// CanRemove reports whether the grid holds at least quantity units of
// itemType in total.
func (g *Grid) CanRemove(itemType ItemType, quantity int) bool {
	if g == nil || quantity <= 0 {
		return false
	}
	return g.Count(itemType) >= quantity
}

// Remove takes quantity units of itemType out of the grid, draining
// matching slots in ascending index order and clearing any slot that
// reaches zero. When the grid holds too few units nothing is mutated and
// false is returned.
func (g *Grid) Remove(itemType ItemType, quantity int) bool {
	if !g.CanRemove(itemType, quantity) {
		return false
	}
	remaining := quantity
	for i := range g.slots {
		if remaining <= 0 {
			break
		}
		if g.slots[i].empty() || g.slots[i].item.Type != itemType {
			continue
		}
		take := g.slots[i].item.Quantity
		if take > remaining {
			take = remaining
		}
		g.slots[i].item.Quantity -= take
		if g.slots[i].empty() {
			g.slots[i].clear()
		}
		remaining -= take
	}
	g.changed()
	return true
}

// MoveOrSwap relocates, merges, or swaps the stacks at two indices. An
// empty destination receives the whole source stack. A destination holding
// the same item absorbs min(room, source quantity) units. Any other
// occupied destination swaps contents outright; a full swap needs no
// capacity check since each slot ends up holding what the other held.
func (g *Grid) MoveOrSwap(fromIndex, toIndex int) bool {
	if g == nil || fromIndex < 0 || fromIndex >= len(g.slots) {
		return false
	}
	if toIndex < 0 || toIndex >= len(g.slots) || fromIndex == toIndex {
		return false
	}
	src := &g.slots[fromIndex]
	dst := &g.slots[toIndex]
	if src.empty() {
		return false
	}

	if dst.empty() {
		dst.item = src.item
		src.clear()
		g.changed()
		return true
	}

	if dst.item.Type == src.item.Type {
		if max, ok := g.maxStack(src.item.Type); ok {
			room := max - dst.item.Quantity
			if room > 0 {
				moved := room
				if moved > src.item.Quantity {
					moved = src.item.Quantity
				}
				dst.item.Quantity += moved
				src.item.Quantity -= moved
				if src.empty() {
					src.clear()
				}
				g.changed()
				return true
			}
		}
	}

	src.item, dst.item = dst.item, src.item
	g.changed()
	return true
}

// Split moves amount units out of the stack at index into the first empty
// slot. The source must keep at least one unit; a split that would empty
// it is rejected. The destination is located before any mutation so a full
// grid fails with zero mutation.
func (g *Grid) Split(index, amount int) (int, bool) {
	if g == nil || index < 0 || index >= len(g.slots) || amount <= 0 {
		return 0, false
	}
	src := &g.slots[index]
	if src.empty() || src.item.Quantity <= amount {
		return 0, false
	}

	dest := -1
	for i := range g.slots {
		if g.slots[i].empty() {
			dest = i
			break
		}
	}
	if dest == -1 {
		return 0, false
	}

	src.item.Quantity -= amount
	g.slots[dest].item = ItemStack{Type: src.item.Type, Quantity: amount}
	g.changed()
	return dest, true
}

// TryPlaceSingleUnit returns exactly one unit of itemType to a preferred
// slot. It succeeds when the slot is empty or already holds the same item
// with room for one more; anything else fails without mutation.
func (g *Grid) TryPlaceSingleUnit(itemType ItemType, preferredIndex int) bool {
	if g == nil || preferredIndex < 0 || preferredIndex >= len(g.slots) {
		return false
	}
	max, ok := g.maxStack(itemType)
	if !ok {
		return false
	}
	dst := &g.slots[preferredIndex]
	if dst.empty() {
		dst.item = ItemStack{Type: itemType, Quantity: 1}
		g.changed()
		return true
	}
	if dst.item.Type != itemType || dst.item.Quantity >= max {
		return false
	}
	dst.item.Quantity++
	g.changed()
	return true
}

// TakeAt removes quantity units from the single slot at index, clearing
// the slot when it reaches zero. It fails without mutation when the slot
// is empty or holds fewer units than requested.
func (g *Grid) TakeAt(index, quantity int) bool {
	if g == nil || index < 0 || index >= len(g.slots) || quantity <= 0 {
		return false
	}
	s := &g.slots[index]
	if s.empty() || s.item.Quantity < quantity {
		return false
	}
	s.item.Quantity -= quantity
	if s.empty() {
		s.clear()
	}
	g.changed()
	return true
}
