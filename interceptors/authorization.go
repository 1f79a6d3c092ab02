package interceptors

import (
	"context"
	"errors"
	"fmt"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
)

// ErrDenied is the sentinel wrapped by authorization failures.
var ErrDenied = errors.New("authorization denied")

// Authorizer decides whether a call may proceed.
type Authorizer interface {
	Authorize(ctx context.Context, method contracts.MethodKey, args []any) error
}

// AuthorizerFunc is a function adapter for Authorizer.
type AuthorizerFunc func(ctx context.Context, method contracts.MethodKey, args []any) error

// Authorize implements Authorizer.
func (f AuthorizerFunc) Authorize(ctx context.Context, method contracts.MethodKey, args []any) error {
	return f(ctx, method, args)
}

// AuthorizationInterceptor denies calls up front. On denial it never
// invokes its continuation: no later stage and no real implementation
// runs, and the fault propagates to the caller.
type AuthorizationInterceptor struct {
	authorizer Authorizer
}

// NewAuthorizationInterceptor creates an authorization interceptor.
func NewAuthorizationInterceptor(authorizer Authorizer) *AuthorizationInterceptor {
	return &AuthorizationInterceptor{authorizer: authorizer}
}

// Intercept implements chain.Interceptor.
func (i *AuthorizationInterceptor) Intercept(ctx context.Context, inv *contracts.Invocation, next chain.Handler) error {
	if err := i.authorizer.Authorize(ctx, inv.Method(), inv.Args()); err != nil {
		fault := fmt.Errorf("%w for %s: %v", ErrDenied, inv.Method(), err)
		inv.SetFault(fault)
		return fault
	}
	return next.Handle(ctx, inv)
}

// Name implements chain.Interceptor.
func (i *AuthorizationInterceptor) Name() string {
	return "AuthorizationInterceptor"
}
