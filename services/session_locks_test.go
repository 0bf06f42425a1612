package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLocksEvictIdleEntries(t *testing.T) {
	l := newSessionLocks()

	unlockA := l.lock("a")
	unlockB := l.lock("b")
	assert.Equal(t, 2, lockCount(l))

	unlockA()
	assert.Equal(t, 1, lockCount(l))
	unlockB()
	assert.Equal(t, 0, lockCount(l))
}

func TestSessionLocksSerializeSameSession(t *testing.T) {
	l := newSessionLocks()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("shared")
			defer unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "units of work for one session must not overlap")
	assert.Equal(t, 0, lockCount(l), "no entries may survive once all work drained")
}

func TestSessionLocksIndependentSessionsDoNotBlock(t *testing.T) {
	l := newSessionLocks()

	unlockA := l.lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := l.lock("b")
		unlockB()
		close(done)
	}()

	<-done
	unlockA()
	assert.Equal(t, 0, lockCount(l))
}

func lockCount(l *sessionLocks) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
