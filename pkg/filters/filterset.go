package filters

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/opst/voipinv/pkg/filters/query"
)

// LookupSeparator separates a parameter name and a lookup, like "name__ic".
const LookupSeparator = "__"

// FilterSet binds query parameter names to filters.
type FilterSet struct {
	filters map[string]Filter
}

// NewFilterSet creates an empty FilterSet.
func NewFilterSet() *FilterSet {
	return &FilterSet{filters: map[string]Filter{}}
}

// Add binds a filter to a parameter.
//
// It panics when the parameter is bound already.
func (fs *FilterSet) Add(param string, f Filter) *FilterSet {
	if _, ok := fs.filters[param]; ok {
		panic(fmt.Sprintf("filter for parameter %q is declared twice", param))
	}
	fs.filters[param] = f
	return fs
}

// AddMultiValue binds a MultiValue filter to the parameter,
// and its variations with lookups to "<param>__<lookup>".
//
// Negated lookups are not bound for Distinct filters.
func (fs *FilterSet) AddMultiValue(param string, f MultiValue) *FilterSet {
	fs.Add(param, f)
	for _, l := range Lookups(f.Kind) {
		if f.Distinct && l.Negated() {
			continue
		}
		fs.Add(param+LookupSeparator+string(l), f.With(l))
	}
	return fs
}

// Params returns parameter names bound, sorted.
func (fs *FilterSet) Params() []string {
	ps := make([]string, 0, len(fs.filters))
	for p := range fs.filters {
		ps = append(ps, p)
	}
	slices.Sort(ps)
	return ps
}

// Has reports whether param is bound.
func (fs *FilterSet) Has(param string) bool {
	_, ok := fs.filters[param]
	return ok
}

// Apply converts query parameters into a constraint.
//
// Each filter bound to a parameter in params is applied, and results are conjoined.
// Parameters not bound are ignored.
//
// # Returns
//
// - query.Constraint: conjoined constraint.
// When no parameters are bound, it is query.None().
//
// - error: an error from a filter.
func (fs *FilterSet) Apply(ctx context.Context, params url.Values) (query.Constraint, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	cs := make([]query.Constraint, 0, len(keys))
	for _, k := range keys {
		f, ok := fs.filters[k]
		if !ok {
			continue
		}
		c, err := f.Apply(ctx, params[k])
		if err != nil {
			return query.Constraint{}, fmt.Errorf("filter %s: %w", k, err)
		}
		if c.IsEmpty() {
			return query.Empty(), nil
		}
		cs = append(cs, c)
	}
	return query.Merge(cs...), nil
}
