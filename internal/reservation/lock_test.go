package reservation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowLocksSameIDSameMutex(t *testing.T) {
	locks := newShowLocks()
	assert.Same(t, locks.get(1), locks.get(1))
}

func TestShowLocksDistinctIDs(t *testing.T) {
	locks := newShowLocks()
	assert.NotSame(t, locks.get(1), locks.get(2))
}

// TestShowLocksMutualExclusion hammers one show lock from many
// goroutines; the unguarded counter stays consistent only if the lock
// actually serializes them.
func TestShowLocksMutualExclusion(t *testing.T) {
	locks := newShowLocks()
	const goroutines, increments = 16, 500

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				m := locks.get(7)
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, goroutines*increments, counter)
}

// TestShowLocksConcurrentGet races first-use allocation of many ids and
// then verifies every id maps to a stable mutex.
func TestShowLocksConcurrentGet(t *testing.T) {
	locks := newShowLocks()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			locks.get(id % 8)
		}(uint64(i))
	}
	wg.Wait()
	for id := uint64(0); id < 8; id++ {
		assert.Same(t, locks.get(id), locks.get(id))
	}
}
