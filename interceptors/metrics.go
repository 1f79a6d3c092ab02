package interceptors

import (
	"context"
	"time"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
)

// Collector receives call metrics from the metrics interceptor.
type Collector interface {
	IncrementCallCount(method string)
	RecordCallDuration(method string, duration time.Duration)
	IncrementFailureCount(method string)
}

// MetricsInterceptor reports call counts, durations and failures.
type MetricsInterceptor struct {
	collector Collector
}

// NewMetricsInterceptor creates a metrics interceptor.
func NewMetricsInterceptor(collector Collector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Intercept implements chain.Interceptor.
func (i *MetricsInterceptor) Intercept(ctx context.Context, inv *contracts.Invocation, next chain.Handler) error {
	method := inv.Method().String()
	start := time.Now()

	i.collector.IncrementCallCount(method)

	err := next.Handle(ctx, inv)

	i.collector.RecordCallDuration(method, time.Since(start))
	if err != nil {
		i.collector.IncrementFailureCount(method)
	}
	return err
}

// Name implements chain.Interceptor.
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}
