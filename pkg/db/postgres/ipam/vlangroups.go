package ipam

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

const vlanGroupFrom = `"vlan_group"
	left join "content_type" as "scope_type" on "scope_type"."id" = "vlan_group"."scope_type_id"`

type vlanGroupRow struct {
	Id                int64
	Name              string
	Slug              string
	Description       string
	ScopeId           *int64
	ScopeTypeId       *int64
	ScopeTypeAppLabel *string
	ScopeTypeModel    *string
}

var vlanGroups = records.Table[kdb.VLANGroup]{
	Name: "vlan_group",
	Id:   `"vlan_group"."id"`,
	From: vlanGroupFrom,
	Columns: sqlq.Columns{
		"id":                   `"vlan_group"."id"`,
		"name":                 `"vlan_group"."name"`,
		"slug":                 `"vlan_group"."slug"`,
		"description":          `"vlan_group"."description"`,
		"scope_id":             `"vlan_group"."scope_id"`,
		"scope_type.app_label": `"scope_type"."app_label"`,
		"scope_type.model":     `"scope_type"."model"`,
	},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.VLANGroup, error) {
		return records.LoadBy(
			ctx, conn,
			`
			select
				"vlan_group"."id", "vlan_group"."name", "vlan_group"."slug", "vlan_group"."description",
				"vlan_group"."scope_id",
				"scope_type"."id" as "scope_type_id",
				"scope_type"."app_label" as "scope_type_app_label",
				"scope_type"."model" as "scope_type_model"
			from `+vlanGroupFrom+`
			where "vlan_group"."id" = any($1)
			`,
			ids,
			func(r vlanGroupRow) int64 { return r.Id },
			func(r vlanGroupRow) kdb.VLANGroup {
				g := kdb.VLANGroup{
					Id:          r.Id,
					Name:        r.Name,
					Slug:        r.Slug,
					ScopeId:     r.ScopeId,
					Description: r.Description,
				}
				if r.ScopeTypeId != nil {
					g.ScopeType = &kdb.ContentType{
						Id: *r.ScopeTypeId, AppLabel: *r.ScopeTypeAppLabel, Model: *r.ScopeTypeModel,
					}
				}
				return g
			},
		)
	},
}

type pgVLANGroups struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.VLANGroup] = &pgVLANGroups{}

func NewVLANGroups(pool kpool.Pool) kdb.Finder[kdb.VLANGroup] {
	return &pgVLANGroups{pool: pool}
}

func (v *pgVLANGroups) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.VLANGroup], error) {
	return vlanGroups.Find(ctx, v.pool, c, page)
}

func (v *pgVLANGroups) Get(ctx context.Context, id int64) (kdb.VLANGroup, error) {
	return vlanGroups.Get(ctx, v.pool, id)
}
