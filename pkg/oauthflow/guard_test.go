package oauthflow

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeGuard(t *testing.T) {
	t.Parallel()

	t.Run("single winner under concurrency", func(t *testing.T) {
		t.Parallel()

		guard := newExchangeGuard(time.Minute)

		const attempts = 50
		var wg sync.WaitGroup
		var mu sync.Mutex
		acquired := 0

		start := make(chan struct{})
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if guard.tryAcquire("code-1") {
					mu.Lock()
					acquired++
					mu.Unlock()
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, 1, acquired)
	})

	t.Run("rejects while in flight", func(t *testing.T) {
		t.Parallel()

		guard := newExchangeGuard(time.Nanosecond)

		require.True(t, guard.tryAcquire("code-2"))
		// Cooldown has not started yet, so even a tiny cooldown cannot
		// have lapsed.
		assert.False(t, guard.tryAcquire("code-2"))
	})

	t.Run("rejects within cooldown after release", func(t *testing.T) {
		t.Parallel()

		guard := newExchangeGuard(time.Hour)

		require.True(t, guard.tryAcquire("code-3"))
		guard.release("code-3")
		assert.False(t, guard.tryAcquire("code-3"))
	})

	t.Run("allows after cooldown lapses", func(t *testing.T) {
		t.Parallel()

		guard := newExchangeGuard(10 * time.Millisecond)

		require.True(t, guard.tryAcquire("code-4"))
		guard.release("code-4")
		time.Sleep(30 * time.Millisecond)
		assert.True(t, guard.tryAcquire("code-4"))
	})

	t.Run("independent codes do not interfere", func(t *testing.T) {
		t.Parallel()

		guard := newExchangeGuard(time.Minute)

		require.True(t, guard.tryAcquire("code-a"))
		assert.True(t, guard.tryAcquire("code-b"))
	})
}
