// Package options implements the functional option pattern used by every
// configurable annfix type.
package options

// Option configures a value of type T. A non-nil error aborts construction.
type Option[T any] func(T) error

// New wraps fn as an Option.
func New[T any](fn func(T) error) Option[T] {
	return fn
}

// NoError wraps an option function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply applies opts to target in order, skipping nil options, and stops at
// the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
