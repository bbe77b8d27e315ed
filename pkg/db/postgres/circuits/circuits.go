// Package circuits is postgres stores of providers and circuits.
package circuits

import (
	"context"
	"time"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

var providerContentType = kdb.ContentTypeRef{AppLabel: "circuits", Model: "provider"}

type providerRow struct {
	Id       int64
	Name     string
	Slug     string
	Account  *string
	Asn      *int64
	Comments string
}

var providers = records.Table[kdb.Provider]{
	Name: "provider",
	Id:   `"provider"."id"`,
	From: `"provider"`,
	Columns: sqlq.Columns{
		"id":       `"provider"."id"`,
		"name":     `"provider"."name"`,
		"slug":     `"provider"."slug"`,
		"account":  `"provider"."account"`,
		"asn":      `"provider"."asn"`,
		"comments": `"provider"."comments"`,
	},
	ManyJoins:   records.TaggedJoins(providerContentType, `"provider"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Provider, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select "id", "name", "slug", "account", "asn", "comments"
			from "provider" where "id" = any($1)
			`,
			ids,
			func(r providerRow) int64 { return r.Id },
			func(r providerRow) kdb.Provider {
				return kdb.Provider{
					Id: r.Id, Name: r.Name, Slug: r.Slug,
					Account: r.Account, Asn: r.Asn, Comments: r.Comments,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, providerContentType, items,
			func(p *kdb.Provider) int64 { return p.Id },
			func(p *kdb.Provider, t []kdb.Tag) { p.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgProviders struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.Provider] = &pgProviders{}

func NewProviders(pool kpool.Pool) kdb.Finder[kdb.Provider] {
	return &pgProviders{pool: pool}
}

func (p *pgProviders) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Provider], error) {
	return providers.Find(ctx, p.pool, c, page)
}

func (p *pgProviders) Get(ctx context.Context, id int64) (kdb.Provider, error) {
	return providers.Get(ctx, p.pool, id)
}

var circuitContentType = kdb.ContentTypeRef{AppLabel: "circuits", Model: "circuit"}

const circuitFrom = `"circuit"
	inner join "provider" on "provider"."id" = "circuit"."provider_id"
	left join "tenant" on "tenant"."id" = "circuit"."tenant_id"`

type circuitRow struct {
	Id                int64
	Cid               string
	Type              string
	Status            string
	InstallDate       *time.Time
	CommitRate        *int64
	MaintenanceWindow *string
	Description       string
	Created           time.Time
	LastUpdated       time.Time
	ProviderId        int64
	ProviderName      string
	ProviderSlug      string
	TenantId          *int64
	TenantName        *string
	TenantSlug        *string
}

var circuits = records.Table[kdb.Circuit]{
	Name: "circuit",
	Id:   `"circuit"."id"`,
	From: circuitFrom,
	Columns: sqlq.Columns{
		"id":                 `"circuit"."id"`,
		"cid":                `"circuit"."cid"`,
		"type":               `"circuit"."type"`,
		"status":             `"circuit"."status"`,
		"description":        `"circuit"."description"`,
		"install_date":       `"circuit"."install_date"`,
		"commit_rate":        `"circuit"."commit_rate"`,
		"maintenance_window": `"circuit"."maintenance_window"`,
		"created":            `"circuit"."created"`,
		"last_updated":       `"circuit"."last_updated"`,
		"provider_id":        `"circuit"."provider_id"`,
		"provider.slug":      `"provider"."slug"`,
		"tenant_id":          `"circuit"."tenant_id"`,
	},
	ManyJoins:   records.TaggedJoins(circuitContentType, `"circuit"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Circuit, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"circuit"."id", "circuit"."cid", "circuit"."type", "circuit"."status",
				"circuit"."install_date", "circuit"."commit_rate",
				to_char("circuit"."maintenance_window", 'HH24:MI:SS') as "maintenance_window",
				"circuit"."description", "circuit"."created", "circuit"."last_updated",
				"provider"."id" as "provider_id", "provider"."name" as "provider_name",
				"provider"."slug" as "provider_slug",
				"tenant"."id" as "tenant_id", "tenant"."name" as "tenant_name", "tenant"."slug" as "tenant_slug"
			from `+circuitFrom+`
			where "circuit"."id" = any($1)
			`,
			ids,
			func(r circuitRow) int64 { return r.Id },
			func(r circuitRow) kdb.Circuit {
				return kdb.Circuit{
					Id:                r.Id,
					Cid:               r.Cid,
					Provider:          kdb.Brief{Id: r.ProviderId, Name: r.ProviderName, Slug: r.ProviderSlug},
					Type:              r.Type,
					Status:            r.Status,
					Tenant:            records.Brief(r.TenantId, r.TenantName, r.TenantSlug),
					InstallDate:       r.InstallDate,
					CommitRate:        r.CommitRate,
					MaintenanceWindow: r.MaintenanceWindow,
					Description:       r.Description,
					Created:           r.Created,
					LastUpdated:       r.LastUpdated,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, circuitContentType, items,
			func(c *kdb.Circuit) int64 { return c.Id },
			func(c *kdb.Circuit, t []kdb.Tag) { c.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgCircuits struct {
	pool kpool.Pool
}

var _ kdb.Finder[kdb.Circuit] = &pgCircuits{}

func NewCircuits(pool kpool.Pool) kdb.Finder[kdb.Circuit] {
	return &pgCircuits{pool: pool}
}

func (p *pgCircuits) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Circuit], error) {
	return circuits.Find(ctx, p.pool, c, page)
}

func (p *pgCircuits) Get(ctx context.Context, id int64) (kdb.Circuit, error) {
	return circuits.Get(ctx, p.pool, id)
}
