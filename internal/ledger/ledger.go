// Package ledger models the external fee-transfer collaborator. The registry
// consumes a single "move N fee units from submitter to authority" side
// effect; balances and accounting belong to the real ledger, not here.
package ledger

import (
	"context"
	"sync"
	"time"

	"reliefregistry/internal/registry"
)

// FeeLedger moves fee units between principals. A failed transfer must leave
// the ledger unchanged; the registry relies on that to keep submissions
// all-or-nothing.
type FeeLedger interface {
	Transfer(ctx context.Context, amount uint64, from, to registry.Address) error
}

// Transfer is one recorded fee movement.
type Transfer struct {
	Amount uint64
	From   registry.Address
	To     registry.Address
	At     time.Time
}

// MemoryLedger records transfers in order. It backs the fee bookkeeping
// display and test assertions on fee amounts and recipients.
type MemoryLedger struct {
	mu        sync.RWMutex
	transfers []Transfer
}

func NewMemory() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Transfer(_ context.Context, amount uint64, from, to registry.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transfers = append(l.transfers, Transfer{Amount: amount, From: from, To: to, At: time.Now()})
	return nil
}

// List returns a copy of all recorded transfers in order.
func (l *MemoryLedger) List() []Transfer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Transfer{}, l.transfers...)
}
