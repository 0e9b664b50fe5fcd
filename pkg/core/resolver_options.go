package core

import (
	"go.uber.org/zap"
)

// ResolverOption is a functor to build a resolver with some options
type ResolverOption func(*Resolver)

// ResolverLogger injects a logging facility into resolver operations
func ResolverLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.l = l
		}
	}
}

// ResolverWithMetrics toggles metrics on a core resolver
func ResolverWithMetrics(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.EnableMetrics(enabled)
	}
}
