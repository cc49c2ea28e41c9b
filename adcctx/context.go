// Package adcctx carries per-call switches for bus adapters through a context.
package adcctx

import "context"

type ctxIndex int

const ctxIndexVerbose ctxIndex = 0

// IsVerbose reports whether adapters should dump the raw bytes they exchange.
func IsVerbose(ctx context.Context) bool {
	val, _ := ctx.Value(ctxIndexVerbose).(bool)
	return val
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxIndexVerbose, value)
}
