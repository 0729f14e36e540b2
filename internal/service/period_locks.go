package service

import (
	"slices"
	"sync"

	"github.com/riteshkumar/building-ledger/internal/models"
)

// PeriodLocks serializes, per calendar month, the operations that read a period's
// lock state and then write: appends and voids into the month, recompute, lock and
// unlock. One instance is shared by every service in the process.
type PeriodLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPeriodLocks() *PeriodLocks {
	return &PeriodLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutexes of every key in a fixed order and returns the release
// function.
func (p *PeriodLocks) Lock(keys ...models.PeriodKey) func() {
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.ID())
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		m := p.get(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (p *PeriodLocks) get(id string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.locks[id]
	if !ok {
		m = &sync.Mutex{}
		p.locks[id] = m
	}
	return m
}
