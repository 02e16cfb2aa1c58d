package autocomplete

import "context"

// Resolver maps query text to candidates. Implementations must tolerate
// concurrent calls; the state machine does not serialize them.
type Resolver[T any] interface {
	Resolve(ctx context.Context, query string) ([]T, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[T any] func(ctx context.Context, query string) ([]T, error)

// Resolve calls f(ctx, query).
func (f ResolverFunc[T]) Resolve(ctx context.Context, query string) ([]T, error) {
	return f(ctx, query)
}

// SelectionFunc receives the whole selection after every commit.
type SelectionFunc[T any] func(selected []T)

// ErrorFunc receives resolver failures together with the query that failed.
// It runs on the owning goroutine, from the dispatcher's apply step.
type ErrorFunc func(query string, err error)
