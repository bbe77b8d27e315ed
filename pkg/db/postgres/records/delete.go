package records

import (
	"context"
	"fmt"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	xe "github.com/opst/voipinv/pkg/errors"
)

// Delete removes a record with id from the table, and its tags.
//
// When it is not found, it returns an error wrapping kdb.ErrMissing.
func Delete(ctx context.Context, pool kpool.Begin, table string, ct kdb.ContentTypeRef, id int64) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`
		delete from "tagged_item"
		where "object_id" = $1 and "content_type_id" = (
			select "id" from "content_type" where "app_label" = $2 and "model" = $3
		)
		`,
		id, ct.AppLabel, ct.Model,
	); err != nil {
		return xe.Wrap(err)
	}

	ctag, err := tx.Exec(ctx, fmt.Sprintf(`delete from "%s" where "id" = $1`, table), id)
	if err != nil {
		return Classify(table, err)
	}
	if ctag.RowsAffected() == 0 {
		return kdb.NewErrMissing(table, id)
	}

	return xe.Wrap(tx.Commit(ctx))
}
