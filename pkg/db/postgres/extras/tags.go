// Package extras is postgres store of tags.
package extras

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

var tags = records.Table[kdb.Tag]{
	Name: "tag",
	Id:   `"tag"."id"`,
	From: `"tag"`,
	Columns: sqlq.Columns{
		"id":          `"tag"."id"`,
		"name":        `"tag"."name"`,
		"slug":        `"tag"."slug"`,
		"color":       `"tag"."color"`,
		"description": `"tag"."description"`,
	},

	// content types where the tag is used.
	ManyJoins: `
		left join "tagged_item" on "tagged_item"."tag_id" = "tag"."id"
		left join "content_type" on "content_type"."id" = "tagged_item"."content_type_id"`,
	ManyColumns: sqlq.Columns{
		"content_type.app_label": `"content_type"."app_label"`,
		"content_type.model":     `"content_type"."model"`,
	},

	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Tag, error) {
		return records.LoadBy(
			ctx, conn,
			`select "id", "name", "slug", "color", "description" from "tag" where "id" = any($1)`,
			ids,
			func(t kdb.Tag) int64 { return t.Id },
			func(t kdb.Tag) kdb.Tag { return t },
		)
	},
}

type pgTags struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.Tag] = &pgTags{}

func NewTags(pool kpool.Pool) kdb.Finder[kdb.Tag] {
	return &pgTags{pool: pool}
}

func (t *pgTags) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Tag], error) {
	return tags.Find(ctx, t.pool, c, page)
}

func (t *pgTags) Get(ctx context.Context, id int64) (kdb.Tag, error) {
	return tags.Get(ctx, t.pool, id)
}
