package interceptors

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/internal/memstore"
	"github.com/bergvall/intercept-go/internal/reliability"
)

func passthrough(calls *int) chain.Handler {
	return chain.HandlerFunc(func(ctx context.Context, inv *contracts.Invocation) error {
		*calls++
		return nil
	})
}

func newInv(method string, args ...any) *contracts.Invocation {
	return contracts.NewInvocation(contracts.NewMethodKey("Svc", method), nil, args)
}

// depMap is a map-backed DependencyResolver for tests.
func depMap(values map[string]any) chain.DependencyResolver {
	return chain.DependencyResolverFunc(func(name string) (any, error) {
		if v, ok := values[name]; ok {
			return v, nil
		}
		return nil, contracts.NewResolutionError("dependency "+name, nil)
	})
}

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) IncrementCallCount(method string) {
	m.Called(method)
}

func (m *mockCollector) RecordCallDuration(method string, duration time.Duration) {
	m.Called(method, duration)
}

func (m *mockCollector) IncrementFailureCount(method string) {
	m.Called(method)
}

func TestLoggingInterceptor(t *testing.T) {
	t.Run("passes the call through", func(t *testing.T) {
		i := NewLoggingInterceptor(slog.Default())
		calls := 0
		err := i.Intercept(context.Background(), newInv("M"), passthrough(&calls))
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("propagates downstream errors", func(t *testing.T) {
		i := NewLoggingInterceptor(nil)
		boom := errors.New("boom")
		err := i.Intercept(context.Background(), newInv("M"), chain.HandlerFunc(
			func(ctx context.Context, inv *contracts.Invocation) error {
				return boom
			}))
		assert.ErrorIs(t, err, boom)
	})
}

func TestCachingInterceptor(t *testing.T) {
	t.Run("miss continues the chain and stores the result", func(t *testing.T) {
		store := memstore.New()
		i := NewCachingInterceptor(store, time.Minute)

		inv := newInv("Get", "k1")
		calls := 0
		err := i.Intercept(context.Background(), inv, chain.HandlerFunc(
			func(ctx context.Context, inv *contracts.Invocation) error {
				calls++
				inv.SetResult("value")
				return nil
			}))
		require.NoError(t, err)
		assert.Equal(t, 1, calls)

		cached, ok := store.Get("Svc.Get|k1")
		assert.True(t, ok)
		assert.Equal(t, "value", cached)
	})

	t.Run("hit short-circuits without continuing", func(t *testing.T) {
		store := memstore.New()
		store.Set("Svc.Get|k1", "cached", 0)
		i := NewCachingInterceptor(store, time.Minute)

		inv := newInv("Get", "k1")
		calls := 0
		err := i.Intercept(context.Background(), inv, passthrough(&calls))
		require.NoError(t, err)
		assert.Zero(t, calls)

		v, ok := inv.Result()
		assert.True(t, ok)
		assert.Equal(t, "cached", v)
	})

	t.Run("different arguments use different entries", func(t *testing.T) {
		store := memstore.New()
		i := NewCachingInterceptor(store, time.Minute)

		calls := 0
		handler := chain.HandlerFunc(func(ctx context.Context, inv *contracts.Invocation) error {
			calls++
			inv.SetResult(calls)
			return nil
		})

		require.NoError(t, i.Intercept(context.Background(), newInv("Get", "a"), handler))
		require.NoError(t, i.Intercept(context.Background(), newInv("Get", "b"), handler))
		assert.Equal(t, 2, calls)
	})

	t.Run("downstream failure is not cached", func(t *testing.T) {
		store := memstore.New()
		i := NewCachingInterceptor(store, time.Minute)
		boom := errors.New("boom")

		err := i.Intercept(context.Background(), newInv("Get", "k"), chain.HandlerFunc(
			func(ctx context.Context, inv *contracts.Invocation) error {
				return boom
			}))
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, store.Len())
	})
}

func TestRetryInterceptor(t *testing.T) {
	t.Run("retries transient failures until success", func(t *testing.T) {
		i := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 5))

		calls := 0
		err := i.Intercept(context.Background(), newInv("M"), chain.HandlerFunc(
			func(ctx context.Context, inv *contracts.Invocation) error {
				calls++
				if calls < 3 {
					return errors.New("transient")
				}
				inv.SetResult("ok")
				return nil
			}))
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		i := NewRetryInterceptor(reliability.NewFixedDelay(time.Millisecond, 5))

		calls := 0
		err := i.Intercept(context.Background(), newInv("M"), chain.HandlerFunc(
			func(ctx context.Context, inv *contracts.Invocation) error {
				calls++
				return reliability.PermanentError{Err: errors.New("fatal")}
			}))
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestMetricsInterceptor(t *testing.T) {
	t.Run("records count and duration on success", func(t *testing.T) {
		collector := &mockCollector{}
		collector.On("IncrementCallCount", "Svc.M").Once()
		collector.On("RecordCallDuration", "Svc.M", mock.Anything).Once()

		i := NewMetricsInterceptor(collector)
		calls := 0
		err := i.Intercept(context.Background(), newInv("M"), passthrough(&calls))
		require.NoError(t, err)
		collector.AssertExpectations(t)
	})

	t.Run("records failure on error", func(t *testing.T) {
		collector := &mockCollector{}
		collector.On("IncrementCallCount", "Svc.M").Once()
		collector.On("RecordCallDuration", "Svc.M", mock.Anything).Once()
		collector.On("IncrementFailureCount", "Svc.M").Once()

		i := NewMetricsInterceptor(collector)
		err := i.Intercept(context.Background(), newInv("M"), chain.HandlerFunc(
			func(ctx context.Context, inv *contracts.Invocation) error {
				return errors.New("boom")
			}))
		assert.Error(t, err)
		collector.AssertExpectations(t)
	})
}

func TestAuthorizationInterceptor(t *testing.T) {
	t.Run("allowed calls continue", func(t *testing.T) {
		i := NewAuthorizationInterceptor(AuthorizerFunc(
			func(ctx context.Context, method contracts.MethodKey, args []any) error {
				return nil
			}))
		calls := 0
		err := i.Intercept(context.Background(), newInv("M"), passthrough(&calls))
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("denied calls short-circuit with a fault", func(t *testing.T) {
		i := NewAuthorizationInterceptor(AuthorizerFunc(
			func(ctx context.Context, method contracts.MethodKey, args []any) error {
				return errors.New("no such role")
			}))

		inv := newInv("M")
		calls := 0
		err := i.Intercept(context.Background(), inv, passthrough(&calls))
		assert.ErrorIs(t, err, ErrDenied)
		assert.Zero(t, calls)
		assert.ErrorIs(t, inv.Fault(), ErrDenied)
	})
}

func TestFactories(t *testing.T) {
	t.Run("RegisterBuiltins registers every kind", func(t *testing.T) {
		kinds := chain.NewKindRegistry()
		require.NoError(t, RegisterBuiltins(kinds))
		for _, kind := range []string{KindLogging, KindCaching, KindRetry, KindMetrics, KindAuthorize} {
			_, ok := kinds.Lookup(kind)
			assert.True(t, ok, kind)
		}
	})

	t.Run("caching factory requires the cache dependency", func(t *testing.T) {
		_, err := CachingFactory(depMap(nil), []any{"5s"})
		assert.True(t, contracts.IsResolutionError(err))
	})

	t.Run("caching factory rejects a wrongly typed dependency", func(t *testing.T) {
		_, err := CachingFactory(depMap(map[string]any{DepCallCache: 42}), nil)
		assert.True(t, contracts.IsResolutionError(err))
	})

	t.Run("caching factory parses ttl forms", func(t *testing.T) {
		deps := depMap(map[string]any{DepCallCache: memstore.New()})

		for _, arg := range []any{"5s", 5, 5 * time.Second} {
			i, err := CachingFactory(deps, []any{arg})
			require.NoError(t, err)
			assert.Equal(t, 5*time.Second, i.(*CachingInterceptor).ttl)
		}

		_, err := CachingFactory(deps, []any{"not-a-duration"})
		assert.True(t, contracts.IsConfigError(err))
	})

	t.Run("retry factory rejects non-integer attempts", func(t *testing.T) {
		_, err := RetryFactory(depMap(nil), []any{"three"})
		assert.True(t, contracts.IsConfigError(err))
	})

	t.Run("metrics factory requires the collector dependency", func(t *testing.T) {
		_, err := MetricsFactory(depMap(nil), nil)
		assert.True(t, contracts.IsResolutionError(err))
	})

	t.Run("authorize factory requires the authorizer dependency", func(t *testing.T) {
		_, err := AuthorizeFactory(depMap(nil), nil)
		assert.True(t, contracts.IsResolutionError(err))
	})

	t.Run("logging factory works without any dependencies", func(t *testing.T) {
		i, err := LoggingFactory(depMap(nil), nil)
		require.NoError(t, err)
		assert.Equal(t, "LoggingInterceptor", i.Name())
	})
}
