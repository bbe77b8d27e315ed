package dcim

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

var siteContentType = kdb.ContentTypeRef{AppLabel: "dcim", Model: "site"}

const siteFrom = `"site"
	left join "region" on "region"."id" = "site"."region_id"
	left join "tenant" on "tenant"."id" = "site"."tenant_id"`

type siteRow struct {
	Id          int64
	Name        string
	Slug        string
	Description string
	RegionId    *int64
	RegionName  *string
	RegionSlug  *string
	TenantId    *int64
	TenantName  *string
	TenantSlug  *string
}

var sites = records.Table[kdb.Site]{
	Name: "site",
	Id:   `"site"."id"`,
	From: siteFrom,
	Columns: sqlq.Columns{
		"id":          `"site"."id"`,
		"name":        `"site"."name"`,
		"slug":        `"site"."slug"`,
		"description": `"site"."description"`,
		"region_id":   `"site"."region_id"`,
		"tenant_id":   `"site"."tenant_id"`,
		"tenant.slug": `"tenant"."slug"`,
	},
	ManyJoins:   records.TaggedJoins(siteContentType, `"site"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Site, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"site"."id", "site"."name", "site"."slug", "site"."description",
				"region"."id" as "region_id", "region"."name" as "region_name", "region"."slug" as "region_slug",
				"tenant"."id" as "tenant_id", "tenant"."name" as "tenant_name", "tenant"."slug" as "tenant_slug"
			from `+siteFrom+`
			where "site"."id" = any($1)
			`,
			ids,
			func(r siteRow) int64 { return r.Id },
			func(r siteRow) kdb.Site {
				return kdb.Site{
					Id:          r.Id,
					Name:        r.Name,
					Slug:        r.Slug,
					Region:      records.Brief(r.RegionId, r.RegionName, r.RegionSlug),
					Tenant:      records.Brief(r.TenantId, r.TenantName, r.TenantSlug),
					Description: r.Description,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, siteContentType, items,
			func(s *kdb.Site) int64 { return s.Id },
			func(s *kdb.Site, t []kdb.Tag) { s.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgSites struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.Site] = &pgSites{}

func NewSites(pool kpool.Pool) kdb.Finder[kdb.Site] {
	return &pgSites{pool: pool}
}

func (s *pgSites) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Site], error) {
	return sites.Find(ctx, s.pool, c, page)
}

func (s *pgSites) Get(ctx context.Context, id int64) (kdb.Site, error) {
	return sites.Get(ctx, s.pool, id)
}
