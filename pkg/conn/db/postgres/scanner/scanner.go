// Package scanner maps rows of pgx into structs.
package scanner

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v4"
)

type Queryer interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

// Scanner reads rows into []T.
//
// When T is a struct, each column is mapped into the field
//
//  1. with tag `sql:"column_name"`,
//  2. or, named in CamelCase of the column name ("site_id" -> "SiteId").
//
// Otherwise, rows should have just one column, which is scanned into T.
//
// # example
//
//	type rackRow struct {
//		Id   int64
//		Name string `sql:"rack_name"`
//	}
//
//	racks, err := scanner.New[rackRow]().QueryAll(
//		ctx, conn, `select "id", "name" as "rack_name" from "rack"`,
//	)
type Scanner[T any] interface {
	// ScanAll reads all rows. rows are not closed.
	ScanAll(pgx.Rows) ([]T, error)

	// QueryAll sends the query and reads all rows of the result.
	QueryAll(context.Context, Queryer, string, ...any) ([]T, error)
}

type scanner[T any] struct {
	// column name -> field index. nil for single column scanners.
	fields map[string][]int
}

func New[T any]() Scanner[T] {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct || isValueStruct(t) {
		return &scanner[T]{}
	}

	fields := map[string][]int{}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag, ok := f.Tag.Lookup("sql"); ok {
			fields[tag] = f.Index
			continue
		}
		if _, ok := fields[f.Name]; !ok {
			fields[f.Name] = f.Index
		}
	}
	return &scanner[T]{fields: fields}
}

// structs which are scanned from one column, like time.Time or pgtype values.
func isValueStruct(t reflect.Type) bool {
	return t.PkgPath() == "time" || strings.HasPrefix(t.PkgPath(), "github.com/jackc/")
}

// camel converts snake_case into CamelCase.
func camel(s string) string {
	b := &strings.Builder{}
	for _, ss := range strings.Split(s, "_") {
		if ss == "" {
			b.WriteString("_")
			continue
		}
		b.WriteString(strings.ToUpper(ss[:1]))
		b.WriteString(ss[1:])
	}
	return b.String()
}

func (s *scanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	cols := rows.FieldDescriptions()

	if s.fields == nil {
		if len(cols) != 1 {
			return nil, fmt.Errorf("%d columns cannot be scanned into %T", len(cols), *new(T))
		}
		ret := []T{}
		for rows.Next() {
			var v T
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			ret = append(ret, v)
		}
		return ret, rows.Err()
	}

	index := make([][]int, len(cols))
	for nth, fd := range cols {
		col := string(fd.Name)
		if i, ok := s.fields[col]; ok {
			index[nth] = i
		} else if i, ok := s.fields[camel(col)]; ok {
			index[nth] = i
		} else {
			return nil, fmt.Errorf(`field for column "%s" is not found in type "%T"`, col, *new(T))
		}
	}

	ret := []T{}
	dest := make([]any, len(index))
	for rows.Next() {
		elem := new(T)
		re := reflect.ValueOf(elem).Elem()
		for nth, i := range index {
			dest[nth] = re.FieldByIndex(i).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		ret = append(ret, *elem)
	}
	return ret, rows.Err()
}

func (s *scanner[T]) QueryAll(ctx context.Context, conn Queryer, q string, params ...any) ([]T, error) {
	rows, err := conn.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.ScanAll(rows)
}
