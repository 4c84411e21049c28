// Package engine implements the rule-matching classification engine.
package engine

// DestinationResolver exchanges a destination's display path for an opaque
// access token granting use of the concrete location. Resolution failure is
// never fatal to classification: the engine skips the rule and tries the
// next one in priority order.
type DestinationResolver interface {
	Resolve(displayPath string) (token string, err error)
}

// ResolverFunc adapts a function to the DestinationResolver interface.
type ResolverFunc func(displayPath string) (string, error)

// Resolve implements DestinationResolver.
func (f ResolverFunc) Resolve(displayPath string) (string, error) {
	return f(displayPath)
}
