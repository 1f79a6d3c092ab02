package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
)

// LoggingInterceptor logs call entry, outcome and duration.
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a logging interceptor. A nil logger
// falls back to slog.Default().
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingInterceptor{logger: logger}
}

// Intercept implements chain.Interceptor.
func (i *LoggingInterceptor) Intercept(ctx context.Context, inv *contracts.Invocation, next chain.Handler) error {
	start := time.Now()

	i.logger.Info("invoking method",
		"method", inv.Method().String(),
		"invocationId", inv.ID(),
		"args", len(inv.Args()),
	)

	err := next.Handle(ctx, inv)
	duration := time.Since(start)

	if err != nil {
		i.logger.Error("method invocation failed",
			"method", inv.Method().String(),
			"invocationId", inv.ID(),
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Info("method invocation completed",
			"method", inv.Method().String(),
			"invocationId", inv.ID(),
			"duration", duration,
		)
	}

	return err
}

// Name implements chain.Interceptor.
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}
