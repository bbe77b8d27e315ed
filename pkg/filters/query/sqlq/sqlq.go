// Package sqlq compiles query.Constraint into a where clause for postgres.
package sqlq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opst/voipinv/pkg/filters/query"
)

// ErrUnknownField is returned when an expression refers a field
// which is not in the Columns.
var ErrUnknownField = errors.New("unknown field")

// Columns maps logical field names to SQL expressions.
//
// Values are written into SQL as they are, so they should be trusted strings
// like `"circuit"."cid"`.
type Columns map[string]string

// Clause is a compiled where clause.
type Clause struct {
	// SQL fragment. It does not have the leading "where".
	SQL string

	// positional arguments for SQL.
	Args []any
}

// Compile renders c into a Clause.
//
// # Args
//
// - c: constraint to be compiled.
//
// - cols: logical field name to SQL expression.
//
// - argOffset: number of positional arguments already used in the surrounding query.
// Placeholders of the clause start from $(argOffset+1).
//
// # Returns
//
// - Clause: compiled clause. It is "true" for no constraint.
//
// - error: ErrUnknownField when c refers a field not in cols.
func Compile(c query.Constraint, cols Columns, argOffset int) (Clause, error) {
	b := &builder{cols: cols, offset: argOffset}
	where := c.Where
	if where == nil {
		where = query.All{}
	}
	if err := b.write(where); err != nil {
		return Clause{}, err
	}
	return Clause{SQL: b.sql.String(), Args: b.args}, nil
}

type builder struct {
	cols   Columns
	offset int
	sql    strings.Builder
	args   []any
}

func (b *builder) column(field string) (string, error) {
	col, ok := b.cols[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return col, nil
}

func (b *builder) placeholder(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", b.offset+len(b.args))
}

func (b *builder) write(e query.Expr) error {
	switch ex := e.(type) {
	case query.All:
		b.sql.WriteString("true")
	case query.Nothing:
		b.sql.WriteString("false")
	case query.Eq:
		col, err := b.column(ex.Field)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b.sql, "%s = %s", col, b.placeholder(ex.Value))
	case query.In:
		col, err := b.column(ex.Field)
		if err != nil {
			return err
		}
		if len(ex.Values) == 0 {
			b.sql.WriteString("false")
			return nil
		}
		ph := make([]string, len(ex.Values))
		for i, v := range ex.Values {
			ph[i] = b.placeholder(v)
		}
		fmt.Fprintf(&b.sql, "%s IN (%s)", col, strings.Join(ph, ", "))
	case query.IsNull:
		col, err := b.column(ex.Field)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b.sql, "%s IS NULL", col)
	case query.Compare:
		col, err := b.column(ex.Field)
		if err != nil {
			return err
		}
		switch ex.Op {
		case query.Lt, query.Lte, query.Gt, query.Gte:
		default:
			return fmt.Errorf("unsupported comparison operator: %q", ex.Op)
		}
		fmt.Fprintf(&b.sql, "%s %s %s", col, ex.Op, b.placeholder(ex.Value))
	case query.Match:
		col, err := b.column(ex.Field)
		if err != nil {
			return err
		}
		pattern := escapeLike(ex.Value)
		switch ex.Mode {
		case query.IExact:
		case query.IContains:
			pattern = "%" + pattern + "%"
		case query.IStartsWith:
			pattern = pattern + "%"
		case query.IEndsWith:
			pattern = "%" + pattern
		default:
			return fmt.Errorf("unsupported match mode: %q", ex.Mode)
		}
		fmt.Fprintf(&b.sql, "%s::text ILIKE %s", col, b.placeholder(pattern))
	case query.ArrayContains:
		col, err := b.column(ex.Field)
		if err != nil {
			return err
		}
		ph := make([]string, len(ex.Values))
		for i, v := range ex.Values {
			ph[i] = b.placeholder(v) + "::bigint"
		}
		fmt.Fprintf(
			&b.sql, "%s::bigint[] @> ARRAY[%s]::bigint[]",
			col, strings.Join(ph, ", "),
		)
	case query.And:
		if len(ex) == 0 {
			b.sql.WriteString("true")
			return nil
		}
		return b.join(" AND ", ex)
	case query.Or:
		if len(ex) == 0 {
			b.sql.WriteString("false")
			return nil
		}
		return b.join(" OR ", ex)
	case query.Not:
		// null is not a match of the inner expression.
		b.sql.WriteString("NOT coalesce((")
		if err := b.write(ex.Expr); err != nil {
			return err
		}
		b.sql.WriteString("), false)")
	default:
		return fmt.Errorf("unsupported expression: %T", e)
	}
	return nil
}

func (b *builder) join(sep string, es []query.Expr) error {
	for i, e := range es {
		if i != 0 {
			b.sql.WriteString(sep)
		}
		b.sql.WriteString("(")
		if err := b.write(e); err != nil {
			return err
		}
		b.sql.WriteString(")")
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
