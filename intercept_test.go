package intercept

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/dispatch"
	"github.com/bergvall/intercept-go/internal/memstore"
	"github.com/bergvall/intercept-go/metadata"
)

const clientTable = `
services:
  - name: GreeterService
    methods:
      - name: Greet
        interceptors:
          - kind: caching
            order: 0
            args: [1m]
`

func TestNewClient(t *testing.T) {
	t.Run("bare client dispatches direct calls", func(t *testing.T) {
		client, err := NewClient(WithService(metadata.ServiceDef{Name: "Echo"}))
		require.NoError(t, err)

		binding := client.Bind("Echo", nil, dispatch.MethodSet{
			"Say": func(ctx context.Context, target any, args []any) (any, error) {
				return args[0], nil
			},
		})

		res, err := binding.Call(context.Background(), "Say", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", res)
	})

	t.Run("config file and dependencies drive the chain", func(t *testing.T) {
		store := memstore.New()
		client, err := NewClient(
			WithConfig(strings.NewReader(clientTable)),
			WithDependency("callCache", store),
		)
		require.NoError(t, err)

		realCalls := 0
		binding := client.Bind("GreeterService", nil, dispatch.MethodSet{
			"Greet": func(ctx context.Context, target any, args []any) (any, error) {
				realCalls++
				return "hi " + args[0].(string), nil
			},
		})

		first, err := binding.Call(context.Background(), "Greet", "ada")
		require.NoError(t, err)
		second, err := binding.Call(context.Background(), "Greet", "ada")
		require.NoError(t, err)

		assert.Equal(t, "hi ada", first)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, realCalls)
	})

	t.Run("custom kinds participate in chains", func(t *testing.T) {
		client, err := NewClient(
			WithService(metadata.ServiceDef{
				Name: "Svc",
				Methods: map[string]metadata.MethodDef{
					"M": {Descriptors: []contracts.ProviderDescriptor{{Kind: "stamp"}}},
				},
			}),
			WithKind("stamp", func(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
				return chain.NewInterceptorFunc("stamp", func(ctx context.Context, inv *contracts.Invocation, next chain.Handler) error {
					if err := next.Handle(ctx, inv); err != nil {
						return err
					}
					if res, ok := inv.Result(); ok {
						inv.SetResult(res.(string) + "!")
					}
					return nil
				}), nil
			}),
		)
		require.NoError(t, err)

		binding := client.Bind("Svc", nil, dispatch.MethodSet{
			"M": func(ctx context.Context, target any, args []any) (any, error) {
				return "done", nil
			},
		})

		res, err := binding.Call(context.Background(), "M")
		require.NoError(t, err)
		assert.Equal(t, "done!", res)
	})

	t.Run("duplicate custom kind fails construction", func(t *testing.T) {
		factory := func(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
			return nil, nil
		}
		_, err := NewClient(WithKind("logging", factory))
		assert.True(t, contracts.IsConfigError(err))
	})

	t.Run("WithoutBuiltins leaves kinds unregistered", func(t *testing.T) {
		client, err := NewClient(
			WithoutBuiltins(),
			WithService(metadata.ServiceDef{
				Name: "Svc",
				Methods: map[string]metadata.MethodDef{
					"M": {Descriptors: []contracts.ProviderDescriptor{{Kind: "logging"}}},
				},
			}),
		)
		require.NoError(t, err)

		_, err = client.Dispatcher().Invoke(context.Background(),
			contracts.NewMethodKey("Svc", "M"), nil, nil,
			func(ctx context.Context, target any, args []any) (any, error) { return nil, nil })
		assert.True(t, contracts.IsConfigError(err))
	})

	t.Run("invalid config fails construction", func(t *testing.T) {
		_, err := NewClient(WithConfig(strings.NewReader("services:\n  - bogus: field\n")))
		assert.Error(t, err)
	})
}
