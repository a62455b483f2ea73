package agent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_HeldLockBlocksSameUser(t *testing.T) {
	locks := newUserLocks()
	unlock := locks.lock("alice")

	acquired := make(chan struct{})
	go func() {
		u := locks.lock("alice")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock for the same user acquired while first was held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after unlock")
	}
}

func TestUserLocks_DifferentUsersDoNotBlock(t *testing.T) {
	locks := newUserLocks()
	unlockAlice := locks.lock("alice")

	acquired := make(chan struct{})
	go func() {
		u := locks.lock("bob")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock for a different user blocked")
	}
	unlockAlice()
}

func TestUserLocks_EntriesAreReleased(t *testing.T) {
	locks := newUserLocks()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("alice")
			unlock()
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.entry, "lock table should be empty once all holders release")
}
