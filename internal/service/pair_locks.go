package service

import "sync"

// pairLocks serializes writes per (location, item) pair. The opening-stock
// chain is a read-then-write: without serialization two concurrent appends
// for the same pair could both read the same prior closing stock.
type pairLocks struct {
	mu    sync.Mutex
	locks map[pairKey]*sync.Mutex
}

type pairKey struct {
	locationID int64
	itemID     int64
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[pairKey]*sync.Mutex)}
}

// acquire locks the pair and returns the unlock function.
func (p *pairLocks) acquire(locationID, itemID int64) func() {
	key := pairKey{locationID, itemID}

	p.mu.Lock()
	lock, ok := p.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
