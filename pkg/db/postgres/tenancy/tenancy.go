// Package tenancy is postgres stores of tenants and tenant groups.
package tenancy

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

const groupFrom = `"tenant_group"
	left join "tenant_group" as "parent" on "parent"."id" = "tenant_group"."parent_id"`

type groupRow struct {
	Id          int64
	Name        string
	Slug        string
	Description string
	ParentId    *int64
	ParentName  *string
	ParentSlug  *string
}

var groups = records.Table[kdb.TenantGroup]{
	Name: "tenant_group",
	Id:   `"tenant_group"."id"`,
	From: groupFrom,
	Columns: sqlq.Columns{
		"id":          `"tenant_group"."id"`,
		"name":        `"tenant_group"."name"`,
		"slug":        `"tenant_group"."slug"`,
		"description": `"tenant_group"."description"`,
		"parent_id":   `"tenant_group"."parent_id"`,
		"parent.slug": `"parent"."slug"`,
	},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.TenantGroup, error) {
		return records.LoadBy(
			ctx, conn,
			`
			select
				"tenant_group"."id", "tenant_group"."name", "tenant_group"."slug", "tenant_group"."description",
				"parent"."id" as "parent_id", "parent"."name" as "parent_name", "parent"."slug" as "parent_slug"
			from `+groupFrom+`
			where "tenant_group"."id" = any($1)
			`,
			ids,
			func(r groupRow) int64 { return r.Id },
			func(r groupRow) kdb.TenantGroup {
				return kdb.TenantGroup{
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

type pgTenantGroups struct {
	pool kpool.Pool
}

var _ kdb.HierarchyInterface[kdb.TenantGroup] = &pgTenantGroups{}

func NewTenantGroups(pool kpool.Pool) kdb.HierarchyInterface[kdb.TenantGroup] {
	return &pgTenantGroups{pool: pool}
}

func (g *pgTenantGroups) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.TenantGroup], error) {
	return groups.Find(ctx, g.pool, c, page)
}

func (g *pgTenantGroups) Get(ctx context.Context, id int64) (kdb.TenantGroup, error) {
	return groups.Get(ctx, g.pool, id)
}

func (g *pgTenantGroups) Descendants(ctx context.Context, refs []string) ([]int64, error) {
	return records.Descendants(ctx, g.pool, "tenant_group", refs)
}

var tenantContentType = kdb.ContentTypeRef{AppLabel: "tenancy", Model: "tenant"}

const tenantFrom = `"tenant"
	left join "tenant_group" on "tenant_group"."id" = "tenant"."group_id"`

type tenantRow struct {
	Id          int64
	Name        string
	Slug        string
	Description string
	GroupId     *int64
	GroupName   *string
	GroupSlug   *string
}

var tenants = records.Table[kdb.Tenant]{
	Name: "tenant",
	Id:   `"tenant"."id"`,
	From: tenantFrom,
	Columns: sqlq.Columns{
		"id":          `"tenant"."id"`,
		"name":        `"tenant"."name"`,
		"slug":        `"tenant"."slug"`,
		"description": `"tenant"."description"`,
		"group_id":    `"tenant"."group_id"`,
	},
	ManyJoins:   records.TaggedJoins(tenantContentType, `"tenant"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Tenant, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"tenant"."id", "tenant"."name", "tenant"."slug", "tenant"."description",
				"tenant_group"."id" as "group_id", "tenant_group"."name" as "group_name",
				"tenant_group"."slug" as "group_slug"
			from `+tenantFrom+`
			where "tenant"."id" = any($1)
			`,
			ids,
			func(r tenantRow) int64 { return r.Id },
			func(r tenantRow) kdb.Tenant {
				return kdb.Tenant{
					Id:          r.Id,
					Name:        r.Name,
					Slug:        r.Slug,
					Group:       records.Brief(r.GroupId, r.GroupName, r.GroupSlug),
					Description: r.Description,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, tenantContentType, items,
			func(t *kdb.Tenant) int64 { return t.Id },
			func(t *kdb.Tenant, tags []kdb.Tag) { t.Tags = tags },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgTenants struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.Tenant] = &pgTenants{}

func NewTenants(pool kpool.Pool) kdb.Finder[kdb.Tenant] {
	return &pgTenants{pool: pool}
}

func (t *pgTenants) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Tenant], error) {
	return tenants.Find(ctx, t.pool, c, page)
}

func (t *pgTenants) Get(ctx context.Context, id int64) (kdb.Tenant, error) {
	return tenants.Get(ctx, t.pool, id)
}
