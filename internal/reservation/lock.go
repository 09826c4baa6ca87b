package reservation

import "sync"

// showLocks is a keyed mutex table: one mutex per show id, created on
// demand and never removed.  Locking at show granularity serializes
// all seat operations on one show while leaving different shows fully
// parallel.  A single global lock would erase that parallelism; a
// per-seat lock would buy little and complicate the occupancy check.
type showLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newShowLocks() *showLocks {
	return &showLocks{locks: make(map[uint64]*sync.Mutex)}
}

// get returns the mutex for a show, allocating it on first use.  The
// table itself is guarded by a separate mutex held only for the map
// lookup, never while a show lock is held.
func (l *showLocks) get(showID uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[showID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[showID] = m
	}
	return m
}
