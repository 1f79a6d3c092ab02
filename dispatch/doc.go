// Package dispatch is the entry point for intercepted calls.
//
// A Dispatcher owns the metadata resolver, the chain builder and the
// chain cache. Every call routed through Invoke resolves (or fetches from
// cache) the method's chain, seeds a fresh Invocation with the caller's
// arguments, instantiates the chain's stages with their dependencies and
// static arguments, runs the pipeline, and returns the invocation's
// result slot (or the fault, unmodified) to the caller.
//
// Callers never use Invoke directly; a forwarding proxy does. Proxies are
// ordinary hand-written or generated types (see cmd/interceptgen) whose
// methods pack their arguments into a slice and call Invoke with a
// closure that invokes the real implementation:
//
//	func (p *OrderServiceProxy) PlaceOrder(ctx context.Context, o Order) (Receipt, error) {
//		res, err := p.dispatcher.Invoke(ctx,
//			contracts.NewMethodKey("OrderService", "PlaceOrder"),
//			p.target, []any{o},
//			func(ctx context.Context, target any, args []any) (any, error) {
//				return target.(*orderService).PlaceOrder(ctx, args[0].(Order))
//			})
//		if err != nil {
//			return Receipt{}, err
//		}
//		return res.(Receipt), nil
//	}
package dispatch
