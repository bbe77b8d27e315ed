package filters

import (
	"context"
	"fmt"

	"github.com/opst/voipinv/pkg/filters/query"
)

// Lookup is a way to compare a field with input values.
//
// In query parameters, lookup is given as suffix of parameter name, like "name__ic".
type Lookup string

const (
	Exact    Lookup = "exact"
	NotExact Lookup = "n"

	// case-insensitive lookups, for textual kinds.

	IExact         Lookup = "ie"
	IContains      Lookup = "ic"
	NotIContains   Lookup = "nic"
	IStartsWith    Lookup = "isw"
	NotIStartsWith Lookup = "nisw"
	IEndsWith      Lookup = "iew"
	NotIEndsWith   Lookup = "niew"

	// ordering lookups, for ordered kinds.

	Gt  Lookup = "gt"
	Gte Lookup = "gte"
	Lt  Lookup = "lt"
	Lte Lookup = "lte"
)

// Negated reports whether l selects records not matching the values.
func (l Lookup) Negated() bool {
	switch l {
	case NotExact, NotIContains, NotIStartsWith, NotIEndsWith:
		return true
	}
	return false
}

// Lookups returns lookups which are applicable for the kind, except Exact.
func Lookups(k Kind) []Lookup {
	ls := []Lookup{NotExact}
	if k.Textual() {
		ls = append(
			ls,
			IExact, IContains, NotIContains,
			IStartsWith, NotIStartsWith, IEndsWith, NotIEndsWith,
		)
	}
	if k.Ordered() {
		ls = append(ls, Gt, Gte, Lt, Lte)
	}
	return ls
}

// MultiValue filters a typed field by multiple values.
//
// Values are ORed: a record satisfying one of values is selected.
// (For negative lookups, values are ANDed: a record equal to none of values is selected.)
//
// Blank values and values not parsable as Kind are ignored.
// When no values are left, it constrains nothing.
//
// Distinct filters are matched per row of a to-many relation,
// so they cannot have negated lookups.
type MultiValue struct {
	Field  string
	Kind   Kind
	Lookup Lookup

	// Distinct requests duplicate-result suppression
	// (for fields over to-many relations).
	Distinct bool
}

var _ Filter = MultiValue{}

// NewMultiValue creates a MultiValue filter with Exact lookup.
func NewMultiValue(field string, kind Kind) MultiValue {
	return MultiValue{Field: field, Kind: kind, Lookup: Exact}
}

// With returns a copy of the filter with the lookup.
func (m MultiValue) With(l Lookup) MultiValue {
	m.Lookup = l
	return m
}

func (m MultiValue) Apply(_ context.Context, values []string) (query.Constraint, error) {
	lookup := m.Lookup
	if lookup == "" {
		lookup = Exact
	}
	if m.Distinct && lookup.Negated() {
		return query.Constraint{}, fmt.Errorf("negated lookup over to-many field %s: %q", m.Field, lookup)
	}

	parsed := make([]any, 0, len(values))
	texts := make([]string, 0, len(values))
	for _, v := range nonBlank(values) {
		p, err := m.Kind.Parse(v)
		if err != nil {
			continue
		}
		parsed = append(parsed, p)
		texts = append(texts, v)
	}
	if len(parsed) == 0 {
		return query.None(), nil
	}

	var where query.Expr
	switch lookup {
	case Exact:
		if len(parsed) == 1 {
			where = query.Eq{Field: m.Field, Value: parsed[0]}
		} else {
			where = query.In{Field: m.Field, Values: parsed}
		}
	case NotExact:
		where = query.Not{Expr: query.In{Field: m.Field, Values: parsed}}
	case IExact, IContains, IStartsWith, IEndsWith:
		if !m.Kind.Textual() {
			return query.None(), nil
		}
		es := make([]query.Expr, len(texts))
		for i, t := range texts {
			es[i] = query.Match{Field: m.Field, Mode: matchMode(lookup), Value: t}
		}
		where = query.OrAll(es...)
	case NotIContains, NotIStartsWith, NotIEndsWith:
		if !m.Kind.Textual() {
			return query.None(), nil
		}
		es := make([]query.Expr, len(texts))
		for i, t := range texts {
			es[i] = query.Match{Field: m.Field, Mode: matchMode(lookup), Value: t}
		}
		where = query.Not{Expr: query.OrAll(es...)}
	case Gt, Gte, Lt, Lte:
		if !m.Kind.Ordered() {
			return query.None(), nil
		}
		es := make([]query.Expr, len(parsed))
		for i, p := range parsed {
			es[i] = query.Compare{Field: m.Field, Op: compareOp(lookup), Value: p}
		}
		where = query.OrAll(es...)
	default:
		return query.Constraint{}, fmt.Errorf("unknown lookup for %s: %q", m.Field, lookup)
	}

	return query.Constraint{Where: where, Distinct: m.Distinct}, nil
}

func matchMode(l Lookup) query.MatchMode {
	switch l {
	case IContains, NotIContains:
		return query.IContains
	case IStartsWith, NotIStartsWith:
		return query.IStartsWith
	case IEndsWith, NotIEndsWith:
		return query.IEndsWith
	}
	return query.IExact
}

func compareOp(l Lookup) query.CompareOp {
	switch l {
	case Gt:
		return query.Gt
	case Gte:
		return query.Gte
	case Lt:
		return query.Lt
	}
	return query.Lte
}
