package interceptors

import (
	"context"
	"log/slog"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/internal/reliability"
)

// RetryInterceptor re-invokes the downstream chain when it fails with a
// retryable error. Stages below the retry run once per attempt; stages
// above it run once per call.
type RetryInterceptor struct {
	policy reliability.Policy
	logger *slog.Logger
}

// NewRetryInterceptor creates a retry interceptor with the given policy.
func NewRetryInterceptor(policy reliability.Policy) *RetryInterceptor {
	return &RetryInterceptor{
		policy: policy,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for retry events.
func (r *RetryInterceptor) WithLogger(logger *slog.Logger) *RetryInterceptor {
	r.logger = logger
	return r
}

// Intercept implements chain.Interceptor.
func (r *RetryInterceptor) Intercept(ctx context.Context, inv *contracts.Invocation, next chain.Handler) error {
	attempt := 0
	return reliability.Do(ctx, r.policy, func() error {
		if attempt > 0 {
			r.logger.Debug("retrying method invocation",
				"method", inv.Method().String(),
				"invocationId", inv.ID(),
				"attempt", attempt,
			)
			inv.ClearFault()
		}
		attempt++
		return next.Handle(ctx, inv)
	})
}

// Name implements chain.Interceptor.
func (r *RetryInterceptor) Name() string {
	return "RetryInterceptor"
}
