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

var voiceCircuitContentType = kdb.ContentTypeRef{AppLabel: "voip", Model: "voicecircuit"}

const voiceCircuitFrom = `"voice_circuit"
	left join "circuit" on "circuit"."id" = "voice_circuit"."circuit_id"
	left join "provider" on "provider"."id" = "voice_circuit"."provider_id"
	left join "tenant" on "tenant"."id" = "voice_circuit"."tenant_id"
	left join "region" on "region"."id" = "voice_circuit"."region_id"
	left join "content_type" as "assigned_object_type"
		on "assigned_object_type"."id" = "voice_circuit"."assigned_object_type_id"`

type voiceCircuitRow struct {
	Id                         int64
	Name                       string
	VoiceCircuitType           string
	SipSource                  *string
	SipTarget                  *string
	AssignedObjectId           *int64
	Description                string
	Created                    time.Time
	LastUpdated                time.Time
	CircuitId                  *int64
	CircuitCid                 *string
	ProviderId                 *int64
	ProviderName               *string
	ProviderSlug               *string
	TenantId                   *int64
	TenantName                 *string
	TenantSlug                 *string
	RegionId                   *int64
	RegionName                 *string
	RegionSlug                 *string
	AssignedObjectTypeId       *int64
	AssignedObjectTypeAppLabel *string
	AssignedObjectTypeModel    *string
}

var voiceCircuits = records.Table[kdb.VoiceCircuit]{
	Name: "voice_circuit",
	Id:   `"voice_circuit"."id"`,
	From: voiceCircuitFrom,
	Columns: sqlq.Columns{
		"id":                             `"voice_circuit"."id"`,
		"name":                           `"voice_circuit"."name"`,
		"voice_circuit_type":             `"voice_circuit"."voice_circuit_type"`,
		"description":                    `"voice_circuit"."description"`,
		"sip_source":                     `"voice_circuit"."sip_source"`,
		"sip_target":                     `"voice_circuit"."sip_target"`,
		"created":                        `"voice_circuit"."created"`,
		"last_updated":                   `"voice_circuit"."last_updated"`,
		"circuit_id":                     `"voice_circuit"."circuit_id"`,
		"provider_id":                    `"voice_circuit"."provider_id"`,
		"tenant_id":                      `"voice_circuit"."tenant_id"`,
		"region_id":                      `"voice_circuit"."region_id"`,
		"assigned_object_id":             `"voice_circuit"."assigned_object_id"`,
		"assigned_object_type.app_label": `"assigned_object_type"."app_label"`,
		"assigned_object_type.model":     `"assigned_object_type"."model"`,
	},
	ManyJoins:   records.TaggedJoins(voiceCircuitContentType, `"voice_circuit"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.VoiceCircuit, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"voice_circuit"."id", "voice_circuit"."name", "voice_circuit"."voice_circuit_type",
				abbrev("voice_circuit"."sip_source") as "sip_source",
				abbrev("voice_circuit"."sip_target") as "sip_target",
				"voice_circuit"."assigned_object_id", "voice_circuit"."description",
				"voice_circuit"."created", "voice_circuit"."last_updated",
				"circuit"."id" as "circuit_id", "circuit"."cid" as "circuit_cid",
				"provider"."id" as "provider_id", "provider"."name" as "provider_name",
				"provider"."slug" as "provider_slug",
				"tenant"."id" as "tenant_id", "tenant"."name" as "tenant_name", "tenant"."slug" as "tenant_slug",
				"region"."id" as "region_id", "region"."name" as "region_name", "region"."slug" as "region_slug",
				"assigned_object_type"."id" as "assigned_object_type_id",
				"assigned_object_type"."app_label" as "assigned_object_type_app_label",
				"assigned_object_type"."model" as "assigned_object_type_model"
			from `+voiceCircuitFrom+`
			where "voice_circuit"."id" = any($1)
			`,
			ids,
			func(r voiceCircuitRow) int64 { return r.Id },
			func(r voiceCircuitRow) kdb.VoiceCircuit {
				vc := kdb.VoiceCircuit{
					Id:               r.Id,
					Name:             r.Name,
					VoiceCircuitType: kdb.VoiceCircuitType(r.VoiceCircuitType),
					Circuit:          records.Brief(r.CircuitId, r.CircuitCid, nil),
					Provider:         records.Brief(r.ProviderId, r.ProviderName, r.ProviderSlug),
					Tenant:           records.Brief(r.TenantId, r.TenantName, r.TenantSlug),
					Region:           records.Brief(r.RegionId, r.RegionName, r.RegionSlug),
					SipSource:        r.SipSource,
					SipTarget:        r.SipTarget,
					AssignedObjectId: r.AssignedObjectId,
					Description:      r.Description,
					Created:          r.Created,
					LastUpdated:      r.LastUpdated,
				}
				if r.AssignedObjectTypeId != nil {
					vc.AssignedObjectType = &kdb.ContentType{
						Id:       *r.AssignedObjectTypeId,
						AppLabel: *r.AssignedObjectTypeAppLabel,
						Model:    *r.AssignedObjectTypeModel,
					}
				}
				return vc
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, voiceCircuitContentType, items,
			func(vc *kdb.VoiceCircuit) int64 { return vc.Id },
			func(vc *kdb.VoiceCircuit, t []kdb.Tag) { vc.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgVoiceCircuits struct {
	pool kpool.Pool
}

var _ kdb.VoiceCircuitInterface = &pgVoiceCircuits{}

func NewVoiceCircuits(pool kpool.Pool) kdb.VoiceCircuitInterface {
	return &pgVoiceCircuits{pool: pool}
}

func (v *pgVoiceCircuits) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.VoiceCircuit], error) {
	return voiceCircuits.Find(ctx, v.pool, c, page)
}

func (v *pgVoiceCircuits) Get(ctx context.Context, id int64) (kdb.VoiceCircuit, error) {
	return voiceCircuits.Get(ctx, v.pool, id)
}

// assignedObjectTypeId resolves content type of the assigned object. nil when not assigned.
func assignedObjectTypeId(ctx context.Context, tx kpool.Tx, spec kdb.VoiceCircuitSpec) (*int64, error) {
	if spec.AssignedObjectType == nil {
		return nil, nil
	}
	id, err := records.ContentTypeId(ctx, tx, "assigned_object_type", *spec.AssignedObjectType)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (v *pgVoiceCircuits) Create(ctx context.Context, spec kdb.VoiceCircuitSpec) (kdb.VoiceCircuit, error) {
	if err := spec.Validate(); err != nil {
		return kdb.VoiceCircuit{}, err
	}

	tx, err := v.pool.Begin(ctx)
	if err != nil {
		return kdb.VoiceCircuit{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	aotId, err := assignedObjectTypeId(ctx, tx, spec)
	if err != nil {
		return kdb.VoiceCircuit{}, err
	}

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "voice_circuit" (
			"name", "voice_circuit_type", "circuit_id", "provider_id", "tenant_id", "region_id",
			"sip_source", "sip_target", "assigned_object_type_id", "assigned_object_id", "description"
		)
		values ($1, $2, $3, $4, $5, $6, $7::text::inet, $8::text::inet, $9, $10, $11)
		returning "id"
		`,
		spec.Name, string(spec.VoiceCircuitType),
		spec.CircuitId, spec.ProviderId, spec.TenantId, spec.RegionId,
		spec.SipSource, spec.SipTarget, aotId, spec.AssignedObjectId, spec.Description,
	).Scan(&id); err != nil {
		return kdb.VoiceCircuit{}, records.Classify("voice_circuit", err)
	}
	if err := records.ReplaceTags(ctx, tx, voiceCircuitContentType, id, spec.Tags); err != nil {
		return kdb.VoiceCircuit{}, err
	}

	created, err := voiceCircuits.Get(ctx, tx, id)
	if err != nil {
		return kdb.VoiceCircuit{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return kdb.VoiceCircuit{}, xe.Wrap(err)
	}
	return created, nil
}

func (v *pgVoiceCircuits) Update(ctx context.Context, id int64, spec kdb.VoiceCircuitSpec) (kdb.VoiceCircuit, error) {
	if err := spec.Validate(); err != nil {
		return kdb.VoiceCircuit{}, err
	}

	tx, err := v.pool.Begin(ctx)
	if err != nil {
		return kdb.VoiceCircuit{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	aotId, err := assignedObjectTypeId(ctx, tx, spec)
	if err != nil {
		return kdb.VoiceCircuit{}, err
	}

	ctag, err := tx.Exec(
		ctx,
		`
		update "voice_circuit" set
			"name" = $2, "voice_circuit_type" = $3,
			"circuit_id" = $4, "provider_id" = $5, "tenant_id" = $6, "region_id" = $7,
			"sip_source" = $8::text::inet, "sip_target" = $9::text::inet,
			"assigned_object_type_id" = $10, "assigned_object_id" = $11,
			"description" = $12, "last_updated" = now()
		where "id" = $1
		`,
		id, spec.Name, string(spec.VoiceCircuitType),
		spec.CircuitId, spec.ProviderId, spec.TenantId, spec.RegionId,
		spec.SipSource, spec.SipTarget, aotId, spec.AssignedObjectId, spec.Description,
	)
	if err != nil {
		return kdb.VoiceCircuit{}, records.Classify("voice_circuit", err)
	}
	if ctag.RowsAffected() == 0 {
		return kdb.VoiceCircuit{}, kdb.NewErrMissing("voice_circuit", id)
	}
	if err := records.ReplaceTags(ctx, tx, voiceCircuitContentType, id, spec.Tags); err != nil {
		return kdb.VoiceCircuit{}, err
	}

	updated, err := voiceCircuits.Get(ctx, tx, id)
	if err != nil {
		return kdb.VoiceCircuit{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return kdb.VoiceCircuit{}, xe.Wrap(err)
	}
	return updated, nil
}

func (v *pgVoiceCircuits) Delete(ctx context.Context, id int64) error {
	return records.Delete(ctx, v.pool, "voice_circuit", voiceCircuitContentType, id)
}
