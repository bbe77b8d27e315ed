// manipulate records in postgres for tests.
//
// This package DOES NOT verify consistencies of records.
// Records are inserted as they are, and the database rejects inconsistent ones.
package tables

import (
	"context"
	"fmt"
	"strings"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
)

func withCause(v any, reason error) error {
	return fmt.Errorf("error caused inserting record %+v: %w", v, reason)
}

// Tables inserts records into tables.
type Tables struct {
	ctx  context.Context
	pool kpool.Pool
}

func New(ctx context.Context, pool kpool.Pool) *Tables {
	return &Tables{ctx: ctx, pool: pool}
}

// insert a row. values can be SQL expressions when they are sqlExpr.
func (f *Tables) insert(record any, table string, columns []string, values ...any) error {
	ph := make([]string, len(values))
	args := []any{}
	for i, v := range values {
		if e, ok := v.(sqlExpr); ok {
			ph[i] = e.sql
			args = append(args, e.args...)
			for j := range e.args {
				ph[i] = strings.Replace(ph[i], fmt.Sprintf("$%c", 'a'+j), fmt.Sprintf("$%d", len(args)-len(e.args)+j+1), 1)
			}
			continue
		}
		args = append(args, v)
		ph[i] = fmt.Sprintf("$%d", len(args))
	}

	ctag, err := f.pool.Exec(
		f.ctx,
		fmt.Sprintf(
			`insert into "%s" ("%s") values (%s)`,
			table, strings.Join(columns, `", "`), strings.Join(ph, ", "),
		),
		args...,
	)
	if err != nil {
		return withCause(record, err)
	}
	if ctag.RowsAffected() != 1 {
		return withCause(record, fmt.Errorf("%d rows are inserted", ctag.RowsAffected()))
	}
	return nil
}

// sqlExpr is a SQL expression with placeholders $a, $b, ... for args.
type sqlExpr struct {
	sql  string
	args []any
}

func contentTypeOf(appLabel string, model string) sqlExpr {
	return sqlExpr{
		sql:  `(select "id" from "content_type" where "app_label" = $a and "model" = $b)`,
		args: []any{appLabel, model},
	}
}

// resetSequence lets serial ids of the table start after inserted ids.
func (f *Tables) resetSequence(table string) error {
	_, err := f.pool.Exec(
		f.ctx,
		fmt.Sprintf(
			`select setval(pg_get_serial_sequence('"%[1]s"', 'id'), coalesce(max("id"), 0) + 1, false) from "%[1]s"`,
			table,
		),
	)
	return err
}

func (f *Tables) InsertTag(t Tag) error {
	color := t.Color
	if color == "" {
		color = "9e9e9e"
	}
	return f.insert(t, "tag", []string{"id", "name", "slug", "color"}, t.Id, t.Name, t.Slug, color)
}

func (f *Tables) InsertTaggedItem(ti TaggedItem) error {
	return f.insert(
		ti, "tagged_item", []string{"tag_id", "content_type_id", "object_id"},
		ti.TagId, contentTypeOf(ti.AppLabel, ti.Model), ti.ObjectId,
	)
}

func (f *Tables) InsertRegion(r Region) error {
	return f.insert(r, "region", []string{"id", "name", "slug", "parent_id"}, r.Id, r.Name, r.Slug, r.ParentId)
}

func (f *Tables) InsertTenantGroup(g TenantGroup) error {
	return f.insert(g, "tenant_group", []string{"id", "name", "slug", "parent_id"}, g.Id, g.Name, g.Slug, g.ParentId)
}

func (f *Tables) InsertTenant(t Tenant) error {
	return f.insert(t, "tenant", []string{"id", "name", "slug", "group_id"}, t.Id, t.Name, t.Slug, t.GroupId)
}

func (f *Tables) InsertSite(s Site) error {
	return f.insert(
		s, "site", []string{"id", "name", "slug", "region_id", "tenant_id"},
		s.Id, s.Name, s.Slug, s.RegionId, s.TenantId,
	)
}

func (f *Tables) InsertRack(r Rack) error {
	return f.insert(
		r, "rack", []string{"id", "name", "facility_id", "site_id", "region_id", "tenant_id"},
		r.Id, r.Name, r.FacilityId, r.SiteId, r.RegionId, r.TenantId,
	)
}

func (f *Tables) InsertDevice(d Device) error {
	return f.insert(d, "device", []string{"id", "name"}, d.Id, d.Name)
}

func (f *Tables) InsertVirtualMachine(vm VirtualMachine) error {
	return f.insert(vm, "virtual_machine", []string{"id", "name"}, vm.Id, vm.Name)
}

func (f *Tables) InsertProvider(p Provider) error {
	return f.insert(
		p, "provider", []string{"id", "name", "slug", "account", "asn"},
		p.Id, p.Name, p.Slug, p.Account, p.Asn,
	)
}

func (f *Tables) InsertCircuit(c Circuit) error {
	status := c.Status
	if status == "" {
		status = "active"
	}
	created := sqlExpr{sql: "now()"}
	if !c.Created.IsZero() {
		created = sqlExpr{sql: "$a", args: []any{c.Created}}
	}
	return f.insert(
		c, "circuit",
		[]string{
			"id", "cid", "provider_id", "type", "status", "tenant_id",
			"install_date", "commit_rate", "maintenance_window", "created",
		},
		c.Id, c.Cid, c.ProviderId, c.Type, status, c.TenantId,
		c.InstallDate, c.CommitRate, sqlExpr{sql: "$a::text::time", args: []any{c.MaintenanceWindow}}, created,
	)
}

func (f *Tables) InsertService(s Service) error {
	kind := "virtualmachine"
	if s.DeviceId != nil {
		kind = "device"
	}
	return f.insert(
		s, "service",
		[]string{"id", "name", "protocol", "ports", "device_id", "virtual_machine_id", "parent_kind"},
		s.Id, s.Name, s.Protocol, s.Ports, s.DeviceId, s.VirtualMachineId, kind,
	)
}

func (f *Tables) InsertVLANGroup(g VLANGroup) error {
	var scopeType any
	var scopeId *int64
	if g.Scope != nil {
		scopeType = contentTypeOf(g.Scope.AppLabel, g.Scope.Model)
		scopeId = &g.Scope.Id
	}
	return f.insert(
		g, "vlan_group", []string{"id", "name", "slug", "scope_type_id", "scope_id"},
		g.Id, g.Name, g.Slug, scopeType, scopeId,
	)
}

func (f *Tables) InsertNumber(n Number) error {
	return f.insert(
		n, "number", []string{"id", "number", "provider_id", "tenant_id", "region_id", "forward_to_id"},
		n.Id, n.Number, n.ProviderId, n.TenantId, n.RegionId, n.ForwardToId,
	)
}

func (f *Tables) InsertVoiceCircuit(vc VoiceCircuit) error {
	var aoType any
	var aoId *int64
	if vc.AssignedObject != nil {
		aoType = contentTypeOf(vc.AssignedObject.AppLabel, vc.AssignedObject.Model)
		aoId = &vc.AssignedObject.Id
	}
	return f.insert(
		vc, "voice_circuit",
		[]string{
			"id", "name", "voice_circuit_type", "circuit_id", "provider_id", "tenant_id", "region_id",
			"sip_source", "sip_target", "assigned_object_type_id", "assigned_object_id",
		},
		vc.Id, vc.Name, vc.VoiceCircuitType, vc.CircuitId, vc.ProviderId, vc.TenantId, vc.RegionId,
		sqlExpr{sql: "$a::text::inet", args: []any{vc.SipSource}},
		sqlExpr{sql: "$a::text::inet", args: []any{vc.SipTarget}},
		aoType, aoId,
	)
}
