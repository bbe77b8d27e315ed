package dcim

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

var rackContentType = kdb.ContentTypeRef{AppLabel: "dcim", Model: "rack"}

const rackFrom = `"rack"
	inner join "site" on "site"."id" = "rack"."site_id"
	left join "region" on "region"."id" = "rack"."region_id"
	left join "tenant" on "tenant"."id" = "rack"."tenant_id"`

type rackRow struct {
	Id         int64
	Name       string
	FacilityId *string
	UHeight    int32
	SiteId     int64
	SiteName   string
	SiteSlug   string
	RegionId   *int64
	RegionName *string
	RegionSlug *string
	TenantId   *int64
	TenantName *string
	TenantSlug *string
}

var racks = records.Table[kdb.Rack]{
	Name: "rack",
	Id:   `"rack"."id"`,
	From: rackFrom,
	Columns: sqlq.Columns{
		"id":          `"rack"."id"`,
		"name":        `"rack"."name"`,
		"facility_id": `"rack"."facility_id"`,
		"u_height":    `"rack"."u_height"`,
		"site_id":     `"rack"."site_id"`,
		"site.slug":   `"site"."slug"`,
		"region_id":   `"rack"."region_id"`,
		"tenant_id":   `"rack"."tenant_id"`,
	},
	ManyJoins:   records.TaggedJoins(rackContentType, `"rack"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Rack, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"rack"."id", "rack"."name", "rack"."facility_id", "rack"."u_height",
				"site"."id" as "site_id", "site"."name" as "site_name", "site"."slug" as "site_slug",
				"region"."id" as "region_id", "region"."name" as "region_name", "region"."slug" as "region_slug",
				"tenant"."id" as "tenant_id", "tenant"."name" as "tenant_name", "tenant"."slug" as "tenant_slug"
			from `+rackFrom+`
			where "rack"."id" = any($1)
			`,
			ids,
			func(r rackRow) int64 { return r.Id },
			func(r rackRow) kdb.Rack {
				return kdb.Rack{
					Id:         r.Id,
					Name:       r.Name,
					FacilityId: r.FacilityId,
					Site:       kdb.Brief{Id: r.SiteId, Name: r.SiteName, Slug: r.SiteSlug},
					Region:     records.Brief(r.RegionId, r.RegionName, r.RegionSlug),
					Tenant:     records.Brief(r.TenantId, r.TenantName, r.TenantSlug),
					UHeight:    r.UHeight,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, rackContentType, items,
			func(r *kdb.Rack) int64 { return r.Id },
			func(r *kdb.Rack, t []kdb.Tag) { r.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgRacks struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.Rack] = &pgRacks{}

func NewRacks(pool kpool.Pool) kdb.Finder[kdb.Rack] {
	return &pgRacks{pool: pool}
}

func (r *pgRacks) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Rack], error) {
	return racks.Find(ctx, r.pool, c, page)
}

func (r *pgRacks) Get(ctx context.Context, id int64) (kdb.Rack, error) {
	return racks.Get(ctx, r.pool, id)
}
