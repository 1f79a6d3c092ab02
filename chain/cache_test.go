package chain

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bergvall/intercept-go/contracts"
)

func TestCache(t *testing.T) {
	key := contracts.NewMethodKey("Svc", "M")

	t.Run("builds once and shares the chain", func(t *testing.T) {
		cache := NewCache()
		builds := 0
		build := func() (*Chain, error) {
			builds++
			return &Chain{method: key}, nil
		}

		first, err := cache.GetOrBuild(key, build)
		require.NoError(t, err)
		second, err := cache.GetOrBuild(key, build)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, builds)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("distinct keys build independently", func(t *testing.T) {
		cache := NewCache()
		other := contracts.NewMethodKey("Svc", "Other")

		a, err := cache.GetOrBuild(key, func() (*Chain, error) { return &Chain{method: key}, nil })
		require.NoError(t, err)
		b, err := cache.GetOrBuild(other, func() (*Chain, error) { return &Chain{method: other}, nil })
		require.NoError(t, err)

		assert.NotSame(t, a, b)
		assert.Equal(t, 2, cache.Len())
	})

	t.Run("build errors are cached and never retried", func(t *testing.T) {
		cache := NewCache()
		builds := 0
		boom := contracts.NewConfigError("unknown kind", contracts.ErrUnknownKind)
		build := func() (*Chain, error) {
			builds++
			return nil, boom
		}

		_, err := cache.GetOrBuild(key, build)
		assert.ErrorIs(t, err, boom)
		_, err = cache.GetOrBuild(key, build)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, builds)
	})

	t.Run("concurrent first calls trigger exactly one build", func(t *testing.T) {
		cache := NewCache()
		var builds int32
		build := func() (*Chain, error) {
			atomic.AddInt32(&builds, 1)
			return &Chain{method: key}, nil
		}

		const callers = 32
		results := make([]*Chain, callers)
		var wg sync.WaitGroup
		start := make(chan struct{})

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				c, err := cache.GetOrBuild(key, build)
				if err == nil {
					results[i] = c
				}
			}(i)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
		for i := 1; i < callers; i++ {
			assert.Same(t, results[0], results[i])
		}
	})

	t.Run("concurrent callers of distinct keys do not interfere", func(t *testing.T) {
		cache := NewCache()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				k := contracts.MethodKey{Service: "Svc", Method: string(rune('A' + i))}
				_, err := cache.GetOrBuild(k, func() (*Chain, error) {
					return &Chain{method: k}, nil
				})
				if err != nil {
					t.Error(err)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 16, cache.Len())
	})
}
