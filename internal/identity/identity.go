// Package identity models the external identity collaborator: the registry
// consumes a single "is this principal registered?" query and never owns
// identity data itself.
package identity

import (
	"context"
	"sync"

	"reliefregistry/internal/registry"
)

// Provider answers whether a principal is a registered user. The registry
// treats this as a pure external query.
type Provider interface {
	IsRegistered(ctx context.Context, addr registry.Address) (bool, error)
}

// Roster is an in-memory registered-user set. It stands in for the real
// identity provider in tests and single-process deployments.
type Roster struct {
	mu      sync.RWMutex
	members map[registry.Address]struct{}
}

func NewRoster(members ...registry.Address) *Roster {
	r := &Roster{members: make(map[registry.Address]struct{})}
	for _, m := range members {
		r.members[m] = struct{}{}
	}
	return r
}

func (r *Roster) Register(addr registry.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[addr] = struct{}{}
}

func (r *Roster) Deregister(addr registry.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, addr)
}

func (r *Roster) IsRegistered(_ context.Context, addr registry.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[addr]
	return ok, nil
}
