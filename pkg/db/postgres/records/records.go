// Package records is a common part of postgres stores:
// finding records by query.Constraint, loading tags and classifying errors.
package records

import (
	"context"
	"fmt"
	"strings"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	"github.com/opst/voipinv/pkg/conn/db/postgres/scanner"
	kdb "github.com/opst/voipinv/pkg/db"
	xe "github.com/opst/voipinv/pkg/errors"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

// Table describes how a kind of records is searched and loaded.
type Table[T any] struct {
	// Name of the table, used in error messages.
	Name string

	// Id is a SQL expression of the id of records, like `"number"."id"`.
	Id string

	// From is a from clause (without "from") joining to-one relations.
	From string

	// Columns are fields on From.
	Columns sqlq.Columns

	// ManyJoins are joins of to-many relations, appended to From for Distinct constraints.
	ManyJoins string

	// ManyColumns are fields on ManyJoins.
	ManyColumns sqlq.Columns

	// Load reads records with ids, in the order of ids.
	Load func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]T, error)
}

// Find searches records satisfying c, ordered by id.
//
// Constraints without Distinct cannot refer ManyColumns.
func (t Table[T]) Find(ctx context.Context, conn kpool.Queryer, c query.Constraint, page kdb.Page) (kdb.Found[T], error) {
	if c.IsEmpty() {
		return kdb.Found[T]{Count: 0, Items: []T{}}, nil
	}

	from := t.From
	cols := t.Columns
	selectId := t.Id
	countId := "*"
	if c.Distinct {
		from = from + " " + t.ManyJoins
		cols = make(sqlq.Columns, len(t.Columns)+len(t.ManyColumns))
		for k, v := range t.Columns {
			cols[k] = v
		}
		for k, v := range t.ManyColumns {
			cols[k] = v
		}
		selectId = "distinct " + t.Id
		countId = "distinct " + t.Id
	}

	where, err := sqlq.Compile(c, cols, 0)
	if err != nil {
		return kdb.Found[T]{}, err
	}

	var count int64
	if err := conn.QueryRow(
		ctx,
		fmt.Sprintf(`select count(%s) from %s where %s`, countId, from, where.SQL),
		where.Args...,
	).Scan(&count); err != nil {
		return kdb.Found[T]{}, xe.Wrap(err)
	}
	if count == 0 {
		return kdb.Found[T]{Count: 0, Items: []T{}}, nil
	}

	q := &strings.Builder{}
	fmt.Fprintf(q, `select %s from %s where %s order by %s`, selectId, from, where.SQL, t.Id)
	args := where.Args
	if 0 < page.Limit {
		args = append(args, page.Limit)
		fmt.Fprintf(q, ` limit $%d`, len(args))
	}
	if 0 < page.Offset {
		args = append(args, page.Offset)
		fmt.Fprintf(q, ` offset $%d`, len(args))
	}

	ids, err := scanner.New[int64]().QueryAll(ctx, conn, q.String(), args...)
	if err != nil {
		return kdb.Found[T]{}, xe.Wrap(err)
	}
	if len(ids) == 0 {
		return kdb.Found[T]{Count: count, Items: []T{}}, nil
	}

	items, err := t.Load(ctx, conn, ids)
	if err != nil {
		return kdb.Found[T]{}, err
	}
	return kdb.Found[T]{Count: count, Items: items}, nil
}

// Get loads a record with id.
//
// When it is not found, it returns an error wrapping kdb.ErrMissing.
func (t Table[T]) Get(ctx context.Context, conn kpool.Queryer, id int64) (T, error) {
	items, err := t.Load(ctx, conn, []int64{id})
	if err != nil {
		return *new(T), err
	}
	if len(items) == 0 {
		return *new(T), kdb.NewErrMissing(t.Name, id)
	}
	return items[0], nil
}

// OrderBy arranges records in the order of ids.
//
// Records whose id is not in ids are dropped.
func OrderBy[R any](ids []int64, records []R, id func(R) int64) []R {
	byId := make(map[int64]R, len(records))
	for _, r := range records {
		byId[id(r)] = r
	}
	ret := make([]R, 0, len(ids))
	for _, i := range ids {
		if r, ok := byId[i]; ok {
			ret = append(ret, r)
		}
	}
	return ret
}

// Brief builds a brief from nullable columns of a to-one relation.
func Brief(id *int64, name *string, slug *string) *kdb.Brief {
	if id == nil {
		return nil
	}
	b := &kdb.Brief{Id: *id}
	if name != nil {
		b.Name = *name
	}
	if slug != nil {
		b.Slug = *slug
	}
	return b
}

// LoadBy reads rows of R by a query having "= any($1)" for ids,
// and converts them into T in the order of ids.
func LoadBy[R any, T any](
	ctx context.Context, conn kpool.Queryer, sql string, ids []int64,
	id func(R) int64, conv func(R) T,
) ([]T, error) {
	rows, err := scanner.New[R]().QueryAll(ctx, conn, sql, ids)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	rows = OrderBy(ids, rows, id)
	ret := make([]T, len(rows))
	for i, r := range rows {
		ret[i] = conv(r)
	}
	return ret, nil
}

// AttachTags loads tags of items and sets them.
func AttachTags[T any](
	ctx context.Context, conn kpool.Queryer, ct kdb.ContentTypeRef, items []T,
	id func(*T) int64, set func(*T, []kdb.Tag),
) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = id(&items[i])
	}
	tags, err := TagsOf(ctx, conn, ct, ids)
	if err != nil {
		return err
	}
	for i := range items {
		ts := tags[ids[i]]
		if ts == nil {
			ts = []kdb.Tag{}
		}
		set(&items[i], ts)
	}
	return nil
}
