// Package try wraps (value, error) pairs, to write setups of tests and main functions briefly.
//
//	pool := try.To(pgxpool.Connect(ctx, url)).OrFatal(t)
package try

// Fataler is something having method `Fatal`, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of a value and an error.
//
// When the error is nil, the Either is "ok" and the value is valid.
// Otherwise, the value should not be used.
type Either[T any] interface {
	// Get returns the pair as it is.
	Get() (T, error)

	// OrFatal returns the value when the Either is ok.
	//
	// Otherwise, it calls ftl.Fatal(err).
	// When ftl has method "Helper()" (like *testing.T), it is called before Fatal.
	OrFatal(ftl Fataler) T

	// OrDefault returns the value when the Either is ok, otherwise d.
	OrDefault(d T) T
}

// To wraps (value, error).
func To[T any](value T, err error) Either[T] {
	if err == nil {
		return ok[T]{value}
	}
	return ng[T]{err}
}

// Map converts the value of Either, if it is ok.
func Map[T any, R any](e Either[T], mapper func(T) R) Either[R] {
	v, err := e.Get()
	if err != nil {
		return ng[R]{err}
	}
	return ok[R]{mapper(v)}
}

type ok[T any] struct {
	value T
}

func (o ok[T]) Get() (T, error)   { return o.value, nil }
func (o ok[T]) OrFatal(Fataler) T { return o.value }
func (o ok[T]) OrDefault(d T) T   { return o.value }

type ng[T any] struct {
	err error
}

func (n ng[T]) Get() (T, error) { return *new(T), n.err }
func (n ng[T]) OrDefault(d T) T { return d }
func (n ng[T]) OrFatal(ftl Fataler) T {
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(n.err)
	return *new(T)
}
