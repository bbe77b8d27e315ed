// Package ipam is postgres stores of services and VLAN groups.
package ipam

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/db/postgres/records"
	xe "github.com/opst/voipinv/pkg/errors"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filters/query/sqlq"
)

var serviceContentType = kdb.ContentTypeRef{AppLabel: "ipam", Model: "service"}

const serviceFrom = `"service"
	left join "device" on "device"."id" = "service"."device_id"
	left join "virtual_machine" on "virtual_machine"."id" = "service"."virtual_machine_id"`

type serviceRow struct {
	Id                 int64
	Name               string
	Protocol           string
	Ports              []int32
	ParentKind         string
	Description        string
	DeviceId           *int64
	DeviceName         *string
	VirtualMachineId   *int64
	VirtualMachineName *string
}

var services = records.Table[kdb.Service]{
	Name: "service",
	Id:   `"service"."id"`,
	From: serviceFrom,
	Columns: sqlq.Columns{
		"id":                 `"service"."id"`,
		"name":               `"service"."name"`,
		"protocol":           `"service"."protocol"`,
		"ports":              `"service"."ports"`,
		"parent_kind":        `"service"."parent_kind"`,
		"description":        `"service"."description"`,
		"device_id":          `"service"."device_id"`,
		"virtual_machine_id": `"service"."virtual_machine_id"`,
	},
	ManyJoins:   records.TaggedJoins(serviceContentType, `"service"."id"`),
	ManyColumns: sqlq.Columns{"tag.slug": `"tag"."slug"`},
	Load: func(ctx context.Context, conn kpool.Queryer, ids []int64) ([]kdb.Service, error) {
		items, err := records.LoadBy(
			ctx, conn,
			`
			select
				"service"."id", "service"."name", "service"."protocol", "service"."ports",
				"service"."parent_kind", "service"."description",
				"device"."id" as "device_id", "device"."name" as "device_name",
				"virtual_machine"."id" as "virtual_machine_id",
				"virtual_machine"."name" as "virtual_machine_name"
			from `+serviceFrom+`
			where "service"."id" = any($1)
			`,
			ids,
			func(r serviceRow) int64 { return r.Id },
			func(r serviceRow) kdb.Service {
				return kdb.Service{
					Id:             r.Id,
					Name:           r.Name,
					Protocol:       r.Protocol,
					Ports:          r.Ports,
					Device:         records.Brief(r.DeviceId, r.DeviceName, nil),
					VirtualMachine: records.Brief(r.VirtualMachineId, r.VirtualMachineName, nil),
					ParentKind:     kdb.ServiceParentKind(r.ParentKind),
					Description:    r.Description,
				}
			},
		)
		if err != nil {
			return nil, err
		}
		if err := records.AttachTags(
			ctx, conn, serviceContentType, items,
			func(s *kdb.Service) int64 { return s.Id },
			func(s *kdb.Service, t []kdb.Tag) { s.Tags = t },
		); err != nil {
			return nil, err
		}
		return items, nil
	},
}

type pgServices struct {
	pool kpool.Pool
}

var _ kdb.ServiceInterface = &pgServices{}

func NewServices(pool kpool.Pool) kdb.ServiceInterface {
	return &pgServices{pool: pool}
}

func (s *pgServices) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[kdb.Service], error) {
	return services.Find(ctx, s.pool, c, page)
}

func (s *pgServices) Get(ctx context.Context, id int64) (kdb.Service, error) {
	return services.Get(ctx, s.pool, id)
}

func (s *pgServices) Create(ctx context.Context, spec kdb.ServiceSpec) (kdb.Service, error) {
	if err := spec.Validate(); err != nil {
		return kdb.Service{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return kdb.Service{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "service"
			("name", "protocol", "ports", "device_id", "virtual_machine_id", "parent_kind", "description")
		values ($1, $2, $3, $4, $5, $6, $7)
		returning "id"
		`,
		spec.Name, spec.Protocol, spec.Ports, spec.DeviceId, spec.VirtualMachineId,
		string(spec.ParentKind()), spec.Description,
	).Scan(&id); err != nil {
		return kdb.Service{}, records.Classify("service", err)
	}
	if err := records.ReplaceTags(ctx, tx, serviceContentType, id, spec.Tags); err != nil {
		return kdb.Service{}, err
	}

	created, err := services.Get(ctx, tx, id)
	if err != nil {
		return kdb.Service{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return kdb.Service{}, xe.Wrap(err)
	}
	return created, nil
}

func (s *pgServices) Update(ctx context.Context, id int64, spec kdb.ServiceSpec) (kdb.Service, error) {
	if err := spec.Validate(); err != nil {
		return kdb.Service{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return kdb.Service{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	ctag, err := tx.Exec(
		ctx,
		`
		update "service" set
			"name" = $2, "protocol" = $3, "ports" = $4,
			"device_id" = $5, "virtual_machine_id" = $6, "parent_kind" = $7,
			"description" = $8
		where "id" = $1
		`,
		id, spec.Name, spec.Protocol, spec.Ports, spec.DeviceId, spec.VirtualMachineId,
		string(spec.ParentKind()), spec.Description,
	)
	if err != nil {
		return kdb.Service{}, records.Classify("service", err)
	}
	if ctag.RowsAffected() == 0 {
		return kdb.Service{}, kdb.NewErrMissing("service", id)
	}
	if err := records.ReplaceTags(ctx, tx, serviceContentType, id, spec.Tags); err != nil {
		return kdb.Service{}, err
	}

	updated, err := services.Get(ctx, tx, id)
	if err != nil {
		return kdb.Service{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return kdb.Service{}, xe.Wrap(err)
	}
	return updated, nil
}

func (s *pgServices) Delete(ctx context.Context, id int64) error {
	return records.Delete(ctx, s.pool, "service", serviceContentType, id)
}
