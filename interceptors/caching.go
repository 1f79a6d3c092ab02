package interceptors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
)

// CallCache is the backing store for the caching interceptor.
type CallCache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// CachingInterceptor serves repeated calls from a cache. On a hit it
// writes the stored value into the invocation's result slot and returns
// without calling its continuation, so no later stage and no real
// implementation runs. On a miss it continues the chain and stores the
// produced result.
type CachingInterceptor struct {
	cache CallCache
	ttl   time.Duration
}

// NewCachingInterceptor creates a caching interceptor with the given
// store and entry lifetime.
func NewCachingInterceptor(cache CallCache, ttl time.Duration) *CachingInterceptor {
	return &CachingInterceptor{cache: cache, ttl: ttl}
}

// Intercept implements chain.Interceptor.
func (i *CachingInterceptor) Intercept(ctx context.Context, inv *contracts.Invocation, next chain.Handler) error {
	key := cacheKey(inv)

	if cached, ok := i.cache.Get(key); ok {
		inv.SetResult(cached)
		return nil
	}

	if err := next.Handle(ctx, inv); err != nil {
		return err
	}

	if result, ok := inv.Result(); ok {
		i.cache.Set(key, result, i.ttl)
	}
	return nil
}

// Name implements chain.Interceptor.
func (i *CachingInterceptor) Name() string {
	return "CachingInterceptor"
}

// cacheKey fingerprints the call: method identity plus the formatted
// argument values. Arguments must have stable formatting for the key to
// be stable; that holds for the value types services pass around.
func cacheKey(inv *contracts.Invocation) string {
	var b strings.Builder
	b.WriteString(inv.Method().String())
	for _, arg := range inv.Args() {
		fmt.Fprintf(&b, "|%v", arg)
	}
	return b.String()
}
