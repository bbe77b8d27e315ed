// Package eval evaluates query.Constraint against in-memory records.
//
// Semantics follows the sql compiler (sqlq):
//
//   - null (nil) never equals, compares or matches anything.
//
//   - a slice valued field is a to-many relation for Eq, In and Match:
//     it matches when any of the elements matches.
//     ArrayContains treats slice as an array value.
//
//   - Not of an expression which is not satisfied because of null is satisfied.
package eval

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/opst/voipinv/pkg/filters/query"
)

// ErrUnknownField is returned when an expression refers a field which the record does not have.
var ErrUnknownField = errors.New("unknown field")

// Record is something having named fields.
type Record interface {
	// Field returns the value of the field and true.
	//
	// When the record does not have such field, it returns false.
	Field(name string) (any, bool)
}

// Map is a Record backed by a map.
type Map map[string]any

func (m Map) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Match reports whether r satisfies c.
func Match(c query.Constraint, r Record) (bool, error) {
	if c.Where == nil {
		return true, nil
	}
	return match(c.Where, r)
}

// Filter returns records satisfying c, keeping order of rs.
//
// Records in rs are assumed to be distinct, so Distinct flag of c makes no difference.
func Filter[R Record](c query.Constraint, rs []R) ([]R, error) {
	ret := []R{}
	for _, r := range rs {
		ok, err := Match(c, r)
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, r)
		}
	}
	return ret, nil
}

func field(r Record, name string) (any, error) {
	v, ok := r.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return v, nil
}

func match(e query.Expr, r Record) (bool, error) {
	switch ex := e.(type) {
	case query.All:
		return true, nil
	case query.Nothing:
		return false, nil
	case query.Eq:
		v, err := field(r, ex.Field)
		if err != nil {
			return false, err
		}
		want := Canonical(ex.Value)
		return anyOf(v, func(got any) bool { return got != nil && got == want }), nil
	case query.In:
		v, err := field(r, ex.Field)
		if err != nil {
			return false, err
		}
		wants := make([]any, len(ex.Values))
		for i := range ex.Values {
			wants[i] = Canonical(ex.Values[i])
		}
		return anyOf(v, func(got any) bool {
			if got == nil {
				return false
			}
			for _, w := range wants {
				if got == w {
					return true
				}
			}
			return false
		}), nil
	case query.IsNull:
		v, err := field(r, ex.Field)
		if err != nil {
			return false, err
		}
		if elems, ok := elements(v); ok {
			return len(elems) == 0, nil
		}
		return Canonical(v) == nil, nil
	case query.Compare:
		v, err := field(r, ex.Field)
		if err != nil {
			return false, err
		}
		want := Canonical(ex.Value)
		return anyOf(v, func(got any) bool {
			c, ok := compare(got, want)
			if !ok {
				return false
			}
			switch ex.Op {
			case query.Lt:
				return c < 0
			case query.Lte:
				return c <= 0
			case query.Gt:
				return c > 0
			case query.Gte:
				return c >= 0
			}
			return false
		}), nil
	case query.Match:
		v, err := field(r, ex.Field)
		if err != nil {
			return false, err
		}
		pattern := strings.ToLower(ex.Value)
		return anyOf(v, func(got any) bool {
			if got == nil {
				return false
			}
			s := strings.ToLower(fmt.Sprint(got))
			switch ex.Mode {
			case query.IExact:
				return s == pattern
			case query.IContains:
				return strings.Contains(s, pattern)
			case query.IStartsWith:
				return strings.HasPrefix(s, pattern)
			case query.IEndsWith:
				return strings.HasSuffix(s, pattern)
			}
			return false
		}), nil
	case query.ArrayContains:
		v, err := field(r, ex.Field)
		if err != nil {
			return false, err
		}
		elems, ok := elements(v)
		if !ok {
			return false, nil
		}
	NEXT:
		for _, want := range ex.Values {
			w := Canonical(want)
			for _, e := range elems {
				if e == w {
					continue NEXT
				}
			}
			return false, nil
		}
		return true, nil
	case query.And:
		for _, sub := range ex {
			ok, err := match(sub, r)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case query.Or:
		for _, sub := range ex {
			ok, err := match(sub, r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case query.Not:
		ok, err := match(ex.Expr, r)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
	return false, fmt.Errorf("unsupported expression: %T", e)
}

// anyOf applies pred to v, or to each element of v when v is a slice.
func anyOf(v any, pred func(any) bool) bool {
	if elems, ok := elements(v); ok {
		for _, e := range elems {
			if pred(e) {
				return true
			}
		}
		return false
	}
	return pred(Canonical(v))
}

// elements returns canonicalized elements when v is a slice.
func elements(v any) ([]any, bool) {
	switch v.(type) {
	case nil, []byte, net.IP:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	ret := make([]any, rv.Len())
	for i := range ret {
		ret[i] = Canonical(rv.Index(i).Interface())
	}
	return ret, true
}

// Canonical converts v into a comparable representation.
//
//   - integers become int64, floats become float64.
//   - time.Time becomes unix time in nanoseconds.
//   - pgtype.Date becomes "YYYY-MM-DD", pgtype.Time becomes microseconds since midnight.
//   - addresses (pgtype.Inet, *net.IPNet) become CIDR notation.
//   - pointers are dereferenced, nil and non-present pgtype values become nil.
func Canonical(v any) any {
	switch vv := v.(type) {
	case nil:
		return nil
	case string:
		return vv
	case bool:
		return vv
	case time.Time:
		return vv.UnixNano()
	case pgtype.Date:
		if vv.Status != pgtype.Present {
			return nil
		}
		return vv.Time.Format("2006-01-02")
	case pgtype.Time:
		if vv.Status != pgtype.Present {
			return nil
		}
		return vv.Microseconds
	case pgtype.Inet:
		if vv.Status != pgtype.Present || vv.IPNet == nil {
			return nil
		}
		return vv.IPNet.String()
	case *net.IPNet:
		if vv == nil {
			return nil
		}
		return vv.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return Canonical(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	}
	return v
}

func compare(a, b any) (int, bool) {
	switch aa := a.(type) {
	case int64:
		bb, ok := b.(int64)
		if !ok {
			return 0, false
		}
		switch {
		case aa < bb:
			return -1, true
		case aa > bb:
			return 1, true
		}
		return 0, true
	case float64:
		bb, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case aa < bb:
			return -1, true
		case aa > bb:
			return 1, true
		}
		return 0, true
	case string:
		bb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(aa, bb), true
	}
	return 0, false
}
