// Package wallet holds a single actor's coin balance. Balances are
// authoritative server state: only the owning side mutates them, and every
// mutation flows through the primitives here so observers stay in sync.
package wallet

// Wallet is a non-negative coin balance with coalesced change
// notifications. Amounts are minor units in int64 so price arithmetic has
// headroom for overflow checks upstream.
type Wallet struct {
	balance int64

	fire  func(int64)
	depth int
	dirty bool
}

// New creates a wallet seeded with balance, clamped at zero.
func New(balance int64) *Wallet {
	if balance < 0 {
		balance = 0
	}
	return &Wallet{balance: balance}
}

// Balance returns the current coin balance.
func (w *Wallet) Balance() int64 {
	if w == nil {
		return 0
	}
	return w.balance
}

// TrySpend debits amount from the balance. It fails without mutation when
// amount is not positive or exceeds the balance; the balance never goes
// negative.
func (w *Wallet) TrySpend(amount int64) bool {
	if w == nil || amount <= 0 || amount > w.balance {
		return false
	}
	w.balance -= amount
	w.changed()
	return true
}

// AddCoins credits amount to the balance. Non-positive amounts are ignored.
func (w *Wallet) AddCoins(amount int64) {
	if w == nil || amount <= 0 {
		return
	}
	w.balance += amount
	w.changed()
}

// Observe registers the function invoked with the new balance whenever the
// wallet changes.
func (w *Wallet) Observe(fn func(balance int64)) {
	if w == nil {
		return
	}
	w.fire = fn
}

// BeginBatch suspends change notifications until the matching EndBatch.
func (w *Wallet) BeginBatch() {
	if w == nil {
		return
	}
	w.depth++
}

// EndBatch closes the innermost batch. The outermost EndBatch(true) emits
// at most one notification carrying the final balance; EndBatch(false)
// discards the pending mark.
func (w *Wallet) EndBatch(send bool) {
	if w == nil || w.depth == 0 {
		return
	}
	w.depth--
	if w.depth > 0 {
		return
	}
	dirty := w.dirty
	w.dirty = false
	if send && dirty && w.fire != nil {
		w.fire(w.balance)
	}
}

func (w *Wallet) changed() {
	if w.depth > 0 {
		w.dirty = true
		return
	}
	if w.fire != nil {
		w.fire(w.balance)
	}
}
