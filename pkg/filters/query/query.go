// Package query is the constraint algebra produced by filters.
//
// A constraint is an expression tree over logical field names.
// It does not know how records are stored;
// compilers in sub packages turn it into something data source specific
// (SQL for postgres in sqlq, an in-memory predicate in eval).
package query

import (
	"fmt"
	"strings"
)

// Expr is a node of constraint expression tree.
type Expr interface {
	expr()
	String() string
}

// All matches every record. This is "no constraint".
type All struct{}

// Nothing matches no record.
type Nothing struct{}

// Eq matches records whose Field equals Value.
type Eq struct {
	Field string
	Value any
}

// In matches records whose Field equals one of Values.
//
// In without Values matches nothing.
type In struct {
	Field  string
	Values []any
}

// IsNull matches records whose Field is null.
type IsNull struct {
	Field string
}

type CompareOp string

const (
	Lt  CompareOp = "<"
	Lte CompareOp = "<="
	Gt  CompareOp = ">"
	Gte CompareOp = ">="
)

// Compare matches records satisfying `Field Op Value`.
type Compare struct {
	Field string
	Op    CompareOp
	Value any
}

type MatchMode string

const (
	// case-insensitive exact match
	IExact MatchMode = "iexact"
	// case-insensitive substring match
	IContains MatchMode = "icontains"
	// case-insensitive prefix match
	IStartsWith MatchMode = "istartswith"
	// case-insensitive suffix match
	IEndsWith MatchMode = "iendswith"
)

// Match matches text Field against Value in Mode.
type Match struct {
	Field string
	Mode  MatchMode
	Value string
}

// ArrayContains matches records whose array-valued Field contains all of Values.
type ArrayContains struct {
	Field  string
	Values []any
}

// And matches records satisfying every Expr.
//
// Empty And is All.
type And []Expr

// Or matches records satisfying any of Expr.
//
// Empty Or is Nothing.
type Or []Expr

// Not inverts Expr.
type Not struct {
	Expr Expr
}

func (All) expr()           {}
func (Nothing) expr()       {}
func (Eq) expr()            {}
func (In) expr()            {}
func (IsNull) expr()        {}
func (Compare) expr()       {}
func (Match) expr()         {}
func (ArrayContains) expr() {}
func (And) expr()           {}
func (Or) expr()            {}
func (Not) expr()           {}

func (All) String() string     { return "ALL" }
func (Nothing) String() string { return "NOTHING" }
func (e Eq) String() string    { return fmt.Sprintf("%s = %v", e.Field, e.Value) }
func (e In) String() string    { return fmt.Sprintf("%s IN %v", e.Field, e.Values) }
func (e IsNull) String() string {
	return fmt.Sprintf("%s IS NULL", e.Field)
}
func (e Compare) String() string {
	return fmt.Sprintf("%s %s %v", e.Field, e.Op, e.Value)
}
func (e Match) String() string {
	return fmt.Sprintf("%s %s %q", e.Field, e.Mode, e.Value)
}
func (e ArrayContains) String() string {
	return fmt.Sprintf("%s CONTAINS %v", e.Field, e.Values)
}
func (e And) String() string { return join(" AND ", e) }
func (e Or) String() string  { return join(" OR ", e) }
func (e Not) String() string { return fmt.Sprintf("NOT (%s)", e.Expr) }

func join(sep string, es []Expr) string {
	ss := make([]string, len(es))
	for i, e := range es {
		ss[i] = "(" + e.String() + ")"
	}
	return strings.Join(ss, sep)
}

// AndAll builds a conjunction of es.
//
// All in es are dropped, nested And are flattened.
// When es has Nothing, it returns Nothing.
// When only one Expr is left, it is returned as is.
func AndAll(es ...Expr) Expr {
	flat := make(And, 0, len(es))
	for _, e := range es {
		switch ee := e.(type) {
		case nil, All:
			continue
		case Nothing:
			return Nothing{}
		case And:
			sub := AndAll(ee...)
			switch s := sub.(type) {
			case All:
			case Nothing:
				return Nothing{}
			case And:
				flat = append(flat, s...)
			default:
				flat = append(flat, s)
			}
		default:
			flat = append(flat, e)
		}
	}
	switch len(flat) {
	case 0:
		return All{}
	case 1:
		return flat[0]
	}
	return flat
}

// OrAll builds a disjunction of es.
//
// Nothing in es are dropped, nested Or are flattened.
// When es has All, it returns All.
// When only one Expr is left, it is returned as is.
func OrAll(es ...Expr) Expr {
	flat := make(Or, 0, len(es))
	for _, e := range es {
		switch ee := e.(type) {
		case nil, Nothing:
			continue
		case All:
			return All{}
		case Or:
			sub := OrAll(ee...)
			switch s := sub.(type) {
			case Nothing:
			case All:
				return All{}
			case Or:
				flat = append(flat, s...)
			default:
				flat = append(flat, s)
			}
		default:
			flat = append(flat, e)
		}
	}
	switch len(flat) {
	case 0:
		return Nothing{}
	case 1:
		return flat[0]
	}
	return flat
}

// Constraint is a result of a filter.
type Constraint struct {
	// Where is predicate of records to be selected.
	Where Expr

	// Distinct requests duplicate-result suppression.
	//
	// Filters following to-many relations (tags, for example) set this.
	Distinct bool
}

// None is a Constraint which constrains nothing.
func None() Constraint {
	return Constraint{Where: All{}}
}

// Empty is a Constraint which no record satisfies.
func Empty() Constraint {
	return Constraint{Where: Nothing{}}
}

// Where creates a Constraint from e.
func Where(e Expr) Constraint {
	return Constraint{Where: e}
}

// IsNone reports whether c constrains nothing.
func (c Constraint) IsNone() bool {
	switch c.Where.(type) {
	case nil, All:
		return true
	}
	return false
}

// IsEmpty reports whether no record can satisfy c.
func (c Constraint) IsEmpty() bool {
	_, ok := AndAll(c.Where).(Nothing)
	return ok
}

// Merge conjoins constraints.
func Merge(cs ...Constraint) Constraint {
	es := make([]Expr, 0, len(cs))
	distinct := false
	for _, c := range cs {
		es = append(es, c.Where)
		distinct = distinct || c.Distinct
	}
	return Constraint{Where: AndAll(es...), Distinct: distinct}
}

func (c Constraint) String() string {
	w := c.Where
	if w == nil {
		w = All{}
	}
	if c.Distinct {
		return "DISTINCT " + w.String()
	}
	return w.String()
}
