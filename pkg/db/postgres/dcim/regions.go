// Package dcim is postgres stores of regions, sites and racks.
package dcim

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

const regionFrom = `"region" left join "region" as "parent" on "parent"."id" = "region"."parent_id"`

type regionRow struct {
	Id          int64
	Name        string
	Slug        string
	Description string
	ParentId    *int64
	ParentName  *string
	ParentSlug  *string
}

var regions = records.Table[kdb.Region]{
	Name: "region",
	Id:   `"region"."id"`,
	From: regionFrom,
	Columns: sqlq.Columns{
		"id":          `"region"."id"`,
		"name":        `"region"."name"`,
		"slug":        `"region"."slug"`,
		"description": `"region"."description"`,
		"parent_id":   `"region"."parent_id"`,
		"parent.slug": `"parent"."slug"`,
	},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Region, error) {
		return records.LoadBy(
			ctx, conn,
			`
			select
				"region"."id", "region"."name", "region"."slug", "region"."description",
				"parent"."id" as "parent_id", "parent"."name" as "parent_name", "parent"."slug" as "parent_slug"
			from `+regionFrom+`
			where "region"."id" = any($1)
			`,
			ids,
			func(r regionRow) int64 { return r.Id },
			func(r regionRow) kdb.Region {
				return kdb.Region{
					Id:          r.Id,
					Name:        r.Name,
					Slug:        r.Slug,
					Parent:      records.Brief(r.ParentId, r.ParentName, r.ParentSlug),
					Description: r.Description,
				}
			},
		)
	},
}

type pgRegions struct {
	pool kpool.Pool
}

var _ kdb.HierarchyInterface[kdb.Region] = &pgRegions{}

func NewRegions(pool kpool.Pool) kdb.HierarchyInterface[kdb.Region] {
	return &pgRegions{pool: pool}
}

func (r *pgRegions) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Region], error) {
	return regions.Find(ctx, r.pool, c, page)
}

func (r *pgRegions) Get(ctx context.Context, id int64) (kdb.Region, error) {
	return regions.Get(ctx, r.pool, id)
}

func (r *pgRegions) Descendants(ctx context.Context, refs []string) ([]int64, error) {
	return records.Descendants(ctx, r.pool, "region", refs)
}
