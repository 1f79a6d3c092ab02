package interceptors

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/internal/reliability"
)

// Kind names under which the built-in interceptors register.
const (
	KindLogging   = "logging"
	KindCaching   = "caching"
	KindRetry     = "retry"
	KindMetrics   = "metrics"
	KindAuthorize = "authorize"
)

// Dependency names the built-in factories resolve.
const (
	// DepLogger is optional; factories fall back to slog.Default().
	DepLogger = "logger"
	// DepCallCache must resolve to a CallCache.
	DepCallCache = "callCache"
	// DepCollector must resolve to a Collector.
	DepCollector = "metricsCollector"
	// DepAuthorizer must resolve to an Authorizer.
	DepAuthorizer = "authorizer"
)

// RegisterBuiltins registers every built-in kind with the registry.
func RegisterBuiltins(kinds *chain.KindRegistry) error {
	for kind, factory := range map[string]chain.Factory{
		KindLogging:   LoggingFactory,
		KindCaching:   CachingFactory,
		KindRetry:     RetryFactory,
		KindMetrics:   MetricsFactory,
		KindAuthorize: AuthorizeFactory,
	} {
		if err := kinds.Register(kind, factory); err != nil {
			return err
		}
	}
	return nil
}

// LoggingFactory builds the logging kind. No static arguments. The
// logger dependency is optional.
func LoggingFactory(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
	return NewLoggingInterceptor(optionalLogger(deps)), nil
}

// CachingFactory builds the caching kind. Static arguments: ttl
// (duration; "5s" or seconds as an integer). Requires DepCallCache.
func CachingFactory(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
	cacheDep, err := deps.Resolve(DepCallCache)
	if err != nil {
		return nil, resolutionErr(DepCallCache, err)
	}
	cache, ok := cacheDep.(CallCache)
	if !ok {
		return nil, contracts.NewResolutionError(
			fmt.Sprintf("dependency %s is %T, not a CallCache", DepCallCache, cacheDep), nil)
	}

	ttl, err := durationArg(args, 0, 0)
	if err != nil {
		return nil, err
	}
	return NewCachingInterceptor(cache, ttl), nil
}

// RetryFactory builds the retry kind. Static arguments: maxAttempts
// (default 3) and initial delay (default 100ms); backoff is exponential
// with a 10s cap.
func RetryFactory(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
	attempts, err := intArg(args, 0, 3)
	if err != nil {
		return nil, err
	}
	initial, err := durationArg(args, 1, 100*time.Millisecond)
	if err != nil {
		return nil, err
	}

	policy := reliability.NewExponentialBackoff(initial, 10*time.Second, 2.0, attempts)
	return NewRetryInterceptor(policy).WithLogger(optionalLogger(deps)), nil
}

// MetricsFactory builds the metrics kind. Requires DepCollector.
func MetricsFactory(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
	dep, err := deps.Resolve(DepCollector)
	if err != nil {
		return nil, resolutionErr(DepCollector, err)
	}
	collector, ok := dep.(Collector)
	if !ok {
		return nil, contracts.NewResolutionError(
			fmt.Sprintf("dependency %s is %T, not a Collector", DepCollector, dep), nil)
	}
	return NewMetricsInterceptor(collector), nil
}

// AuthorizeFactory builds the authorize kind. Requires DepAuthorizer.
func AuthorizeFactory(deps chain.DependencyResolver, args []any) (chain.Interceptor, error) {
	dep, err := deps.Resolve(DepAuthorizer)
	if err != nil {
		return nil, resolutionErr(DepAuthorizer, err)
	}
	authorizer, ok := dep.(Authorizer)
	if !ok {
		return nil, contracts.NewResolutionError(
			fmt.Sprintf("dependency %s is %T, not an Authorizer", DepAuthorizer, dep), nil)
	}
	return NewAuthorizationInterceptor(authorizer), nil
}

func optionalLogger(deps chain.DependencyResolver) *slog.Logger {
	if dep, err := deps.Resolve(DepLogger); err == nil {
		if logger, ok := dep.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

func resolutionErr(name string, err error) error {
	if contracts.IsResolutionError(err) {
		return err
	}
	return contracts.NewResolutionError("dependency "+name, err)
}

func intArg(args []any, i, fallback int) (int, error) {
	if i >= len(args) || args[i] == nil {
		return fallback, nil
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, contracts.NewConfigError(
			fmt.Sprintf("static argument %d is %T, expected an integer", i, args[i]), nil)
	}
}

func durationArg(args []any, i int, fallback time.Duration) (time.Duration, error) {
	if i >= len(args) || args[i] == nil {
		return fallback, nil
	}
	switch v := args[i].(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, contracts.NewConfigError(
				fmt.Sprintf("static argument %d is not a duration", i), err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Second, nil
	default:
		return 0, contracts.NewConfigError(
			fmt.Sprintf("static argument %d is %T, expected a duration", i, args[i]), nil)
	}
}
