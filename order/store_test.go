package order

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUpsertAndGet(t *testing.T) {
	store := NewStore()

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Upsert(NewSession(1, "alice", "3x3", 60))
	sess, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "3x3", sess.Format)
	assert.Equal(t, 1, store.Len())

	// Upsert overwrites the previous session for the same user.
	store.Upsert(NewSession(1, "alice", "6x8", 195))
	sess, ok = store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "6x8", sess.Format)
	assert.Equal(t, 1, store.Len())
}

func TestStoreTakeIsAtomic(t *testing.T) {
	store := NewStore()
	store.Upsert(NewSession(1, "alice", "3x3", 60))

	const goroutines = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if _, ok := store.Take(1); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, store.Len())
}

func TestStoreUpdateCreatesMutatesAndDeletes(t *testing.T) {
	store := NewStore()

	store.Update(1, func(sess *Session) *Session {
		assert.Nil(t, sess)
		return NewSession(1, "alice", "3x3", 60)
	})
	assert.Equal(t, 1, store.Len())

	store.Update(1, func(sess *Session) *Session {
		require.NotNil(t, sess)
		require.NoError(t, sess.SetQuantity(2))
		return sess
	})
	sess, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, 120, sess.Total)

	store.Update(1, func(sess *Session) *Session { return nil })
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestStorePerUserIsolation(t *testing.T) {
	store := NewStore()
	const iterations = 200

	var wg sync.WaitGroup
	for _, userID := range []int64{1, 2} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Upsert(NewSession(id, "user", "3x3", 60))
			for i := 0; i < iterations; i++ {
				store.Update(id, func(sess *Session) *Session {
					if sess.State == StateAwaitingQuantity {
						_ = sess.SetQuantity(int(id))
					}
					_ = sess.AddAttachment("p")
					return sess
				})
			}
		}(userID)
	}
	wg.Wait()

	for _, userID := range []int64{1, 2} {
		sess, ok := store.Get(userID)
		require.True(t, ok)
		assert.Equal(t, int(userID), sess.Quantity)
		assert.Len(t, sess.Attachments, iterations)
	}
}
