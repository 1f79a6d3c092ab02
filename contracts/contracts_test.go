package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodKey(t *testing.T) {
	t.Run("String returns Service.Method", func(t *testing.T) {
		key := NewMethodKey("OrderService", "PlaceOrder")
		assert.Equal(t, "OrderService.PlaceOrder", key.String())
	})

	t.Run("equality is structural", func(t *testing.T) {
		a := NewMethodKey("Svc", "M")
		b := NewMethodKey("Svc", "M")
		assert.True(t, a == b)
		assert.NotEqual(t, a, NewMethodKey("Svc", "Other"))
	})

	t.Run("IsZero", func(t *testing.T) {
		assert.True(t, MethodKey{}.IsZero())
		assert.False(t, NewMethodKey("Svc", "M").IsZero())
	})
}

func TestProviderDescriptor(t *testing.T) {
	t.Run("Validate rejects empty kind", func(t *testing.T) {
		err := ProviderDescriptor{}.Validate()
		assert.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("Validate accepts named kind", func(t *testing.T) {
		d := ProviderDescriptor{Kind: "logging", Order: 10}
		assert.NoError(t, d.Validate())
	})
}

func TestSuppression(t *testing.T) {
	t.Run("empty kinds suppresses all", func(t *testing.T) {
		s := Suppression{}
		assert.True(t, s.SuppressesAll())
		assert.True(t, s.Suppresses("anything"))
	})

	t.Run("named kinds suppress only those", func(t *testing.T) {
		s := Suppression{Kinds: []string{"caching", "retry"}}
		assert.False(t, s.SuppressesAll())
		assert.True(t, s.Suppresses("caching"))
		assert.True(t, s.Suppresses("retry"))
		assert.False(t, s.Suppresses("logging"))
	})
}

func TestChainSpec(t *testing.T) {
	t.Run("Empty reports no entries", func(t *testing.T) {
		spec := ChainSpec{Method: NewMethodKey("Svc", "M")}
		assert.True(t, spec.Empty())

		spec.Entries = []ResolvedDescriptor{{
			ProviderDescriptor: ProviderDescriptor{Kind: "logging"},
		}}
		assert.False(t, spec.Empty())
	})
}

func TestInvocation(t *testing.T) {
	t.Run("seeded with method, target and args", func(t *testing.T) {
		key := NewMethodKey("Svc", "M")
		target := struct{}{}
		inv := NewInvocation(key, target, []any{1, "two"})

		assert.Equal(t, key, inv.Method())
		assert.Equal(t, target, inv.Target())
		assert.Equal(t, []any{1, "two"}, inv.Args())
		assert.NotEmpty(t, inv.ID())
	})

	t.Run("distinct invocations get distinct IDs", func(t *testing.T) {
		key := NewMethodKey("Svc", "M")
		a := NewInvocation(key, nil, nil)
		b := NewInvocation(key, nil, nil)
		assert.NotEqual(t, a.ID(), b.ID())
	})

	t.Run("result slot starts unset", func(t *testing.T) {
		inv := NewInvocation(NewMethodKey("Svc", "M"), nil, nil)
		_, ok := inv.Result()
		assert.False(t, ok)
	})

	t.Run("last result writer wins", func(t *testing.T) {
		inv := NewInvocation(NewMethodKey("Svc", "M"), nil, nil)
		inv.SetResult("first")
		inv.SetResult("second")

		v, ok := inv.Result()
		assert.True(t, ok)
		assert.Equal(t, "second", v)
	})

	t.Run("argument mutation is visible", func(t *testing.T) {
		inv := NewInvocation(NewMethodKey("Svc", "M"), nil, []any{"a", "b"})
		inv.SetArg(1, "patched")
		assert.Equal(t, []any{"a", "patched"}, inv.Args())
	})

	t.Run("fault slot can be set and cleared", func(t *testing.T) {
		inv := NewInvocation(NewMethodKey("Svc", "M"), nil, nil)
		cause := errors.New("boom")
		inv.SetFault(cause)
		assert.Equal(t, cause, inv.Fault())

		inv.ClearFault()
		assert.NoError(t, inv.Fault())
	})
}

func TestErrors(t *testing.T) {
	t.Run("ConfigError wraps cause", func(t *testing.T) {
		cause := errors.New("bad kind")
		err := NewConfigError("descriptor rejected", cause)

		assert.True(t, IsConfigError(err))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "descriptor rejected")
	})

	t.Run("ConfigError survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("building chain: %w", NewConfigError("unknown kind", ErrUnknownKind))
		assert.True(t, IsConfigError(err))
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("ResolutionError wraps cause", func(t *testing.T) {
		err := NewResolutionError("dependency Clock", errors.New("not registered"))
		assert.True(t, IsResolutionError(err))
		assert.False(t, IsConfigError(err))
		assert.Contains(t, err.Error(), "dependency Clock")
	})
}
