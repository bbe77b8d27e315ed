// Package voip is postgres stores of numbers and voice circuits.
package voip

import (
	"context"
	"time"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	xe "github.com/opst/voipinv/pkg/errors"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

var numberContentType = kdb.ContentTypeRef{AppLabel: "voip", Model: "number"}

const numberFrom = `"number"
	left join "provider" on "provider"."id" = "number"."provider_id"
	left join "tenant" on "tenant"."id" = "number"."tenant_id"
	left join "region" on "region"."id" = "number"."region_id"
	left join "number" as "forward_to" on "forward_to"."id" = "number"."forward_to_id"`

type numberRow struct {
	Id              int64
	Number          string
	Description     string
	Created         time.Time
	LastUpdated     time.Time
	ProviderId      *int64
	ProviderName    *string
	ProviderSlug    *string
	TenantId        *int64
	TenantName      *string
	TenantSlug      *string
	RegionId        *int64
	RegionName      *string
	RegionSlug      *string
	ForwardToId     *int64
	ForwardToNumber *string
}

var numbers = records.Table[kdb.Number]{
	Name: "number",
	Id:   `"number"."id"`,
	From: numberFrom,
	Columns: sqlq.Columns{
		"id":            `"number"."id"`,
		"number":        `"number"."number"`,
		"description":   `"number"."description"`,
		"created":       `"number"."created"`,
		"last_updated":  `"number"."last_updated"`,
		"provider_id":   `"number"."provider_id"`,
		"provider.slug": `"provider"."slug"`,
		"tenant_id":     `"number"."tenant_id"`,
		"tenant.slug":   `"tenant"."slug"`,
		"region_id":     `"number"."region_id"`,
		"forward_to_id": `"number"."forward_to_id"`,
	},
	ManyJoins:   records.TaggedJoins(numberContentType, `"number"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Number, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"number"."id", "number"."number", "number"."description",
				"number"."created", "number"."last_updated",
				"provider"."id" as "provider_id", "provider"."name" as "provider_name",
				"provider"."slug" as "provider_slug",
				"tenant"."id" as "tenant_id", "tenant"."name" as "tenant_name", "tenant"."slug" as "tenant_slug",
				"region"."id" as "region_id", "region"."name" as "region_name", "region"."slug" as "region_slug",
				"forward_to"."id" as "forward_to_id", "forward_to"."number" as "forward_to_number"
			from `+numberFrom+`
			where "number"."id" = any($1)
			`,
			ids,
			func(r numberRow) int64 { return r.Id },
			func(r numberRow) kdb.Number {
				return kdb.Number{
					Id:          r.Id,
					Number:      r.Number,
					Provider:    records.Brief(r.ProviderId, r.ProviderName, r.ProviderSlug),
					Tenant:      records.Brief(r.TenantId, r.TenantName, r.TenantSlug),
					Region:      records.Brief(r.RegionId, r.RegionName, r.RegionSlug),
					ForwardTo:   records.Brief(r.ForwardToId, r.ForwardToNumber, nil),
					Description: r.Description,
					Created:     r.Created,
					LastUpdated: r.LastUpdated,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, numberContentType, items,
			func(n *kdb.Number) int64 { return n.Id },
			func(n *kdb.Number, t []kdb.Tag) { n.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgNumbers struct {
	pool kpool.Pool
}

var _ kdb.NumberInterface = &pgNumbers{}

func NewNumbers(pool kpool.Pool) kdb.NumberInterface {
	return &pgNumbers{pool: pool}
}

func (n *pgNumbers) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Number], error) {
	return numbers.Find(ctx, n.pool, c, page)
}

func (n *pgNumbers) Get(ctx context.Context, id int64) (kdb.Number, error) {
	return numbers.Get(ctx, n.pool, id)
}

func (n *pgNumbers) Create(ctx context.Context, spec kdb.NumberSpec) (kdb.Number, error) {
	if err := spec.Validate(nil); err != nil {
		return kdb.Number{}, err
	}

	tx, err := n.pool.Begin(ctx)
	if err != nil {
		return kdb.Number{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "number"
			("number", "provider_id", "tenant_id", "region_id", "forward_to_id", "description")
		values ($1, $2, $3, $4, $5, $6)
		returning "id"
		`,
		spec.Number, spec.ProviderId, spec.TenantId, spec.RegionId, spec.ForwardToId, spec.Description,
	).Scan(&id); err != nil {
		return kdb.Number{}, records.Classify("number", err)
	}
	if err := records.ReplaceTags(ctx, tx, numberContentType, id, spec.Tags); err != nil {
		return kdb.Number{}, err
	}

	created, err := numbers.Get(ctx, tx, id)
	if err != nil {
		return kdb.Number{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return kdb.Number{}, xe.Wrap(err)
	}
	return created, nil
}

func (n *pgNumbers) Update(ctx context.Context, id int64, spec kdb.NumberSpec) (kdb.Number, error) {
	if err := spec.Validate(&id); err != nil {
		return kdb.Number{}, err
	}

	tx, err := n.pool.Begin(ctx)
	if err != nil {
		return kdb.Number{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	ctag, err := tx.Exec(
		ctx,
		`
		update "number" set
			"number" = $2, "provider_id" = $3, "tenant_id" = $4, "region_id" = $5,
			"forward_to_id" = $6, "description" = $7, "last_updated" = now()
		where "id" = $1
		`,
		id, spec.Number, spec.ProviderId, spec.TenantId, spec.RegionId, spec.ForwardToId, spec.Description,
	)
	if err != nil {
		return kdb.Number{}, records.Classify("number", err)
	}
	if ctag.RowsAffected() == 0 {
		return kdb.Number{}, kdb.NewErrMissing("number", id)
	}
	if err := records.ReplaceTags(ctx, tx, numberContentType, id, spec.Tags); err != nil {
		return kdb.Number{}, err
	}

	updated, err := numbers.Get(ctx, tx, id)
	if err != nil {
		return kdb.Number{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return kdb.Number{}, xe.Wrap(err)
	}
	return updated, nil
}

func (n *pgNumbers) Delete(ctx context.Context, id int64) error {
	return records.Delete(ctx, n.pool, "number", numberContentType, id)
}
