// Package filters translates query parameters into constraints on records.
//
// Each filter is stateless except for its configuration,
// so one filter can be used concurrently.
//
// Filters never fail because of malformed input.
// Depending on the filter, malformed input contributes no constraint
// or a constraint which no record satisfies.
// Errors are only for failures of collaborators (e.g. database lookup).
package filters

import (
	"context"

	"github.com/opst/voipinv/pkg/filters/query"
)

// DefaultNullSentinel is the default input value meaning "explicit null".
const DefaultNullSentinel = "null"

// Filter converts values of a query parameter into a constraint.
type Filter interface {
	// Apply converts values into a constraint.
	//
	// # Args
	//
	// - ctx: context.
	//
	// - values: values of the query parameter. For single valued filters, the first one is used.
	//
	// # Returns
	//
	// - query.Constraint: the constraint. query.None() when the filter constrains nothing.
	//
	// - error: failure of collaborators. Malformed values are not errors.
	Apply(ctx context.Context, values []string) (query.Constraint, error)
}

// Func is a Filter as a function.
type Func func(ctx context.Context, values []string) (query.Constraint, error)

func (f Func) Apply(ctx context.Context, values []string) (query.Constraint, error) {
	return f(ctx, values)
}

// first returns the first value, or "" when there are no values.
func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// nonBlank returns values dropping empty strings.
func nonBlank(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		ret = append(ret, v)
	}
	return ret
}
