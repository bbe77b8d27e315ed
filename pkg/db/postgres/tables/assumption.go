package tables

import (
	"context"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
)

// Declare premise of test.
//
// Records are inserted in dependency order: referred records first.
type Operation struct {
	Tags            []Tag
	Regions         []Region
	TenantGroups    []TenantGroup
	Tenants         []Tenant
	Sites           []Site
	Racks           []Rack
	Devices         []Device
	VirtualMachines []VirtualMachine
	Providers       []Provider
	Circuits        []Circuit
	Services        []Service
	VLANGroups      []VLANGroup
	Numbers         []Number
	VoiceCircuits   []VoiceCircuit
	TaggedItems     []TaggedItem
}

func insertAll[T any](items []T, insert func(T) error) error {
	for _, i := range items {
		if err := insert(i); err != nil {
			return err
		}
	}
	return nil
}

func (op Operation) Apply(ctx context.Context, pool kpool.Pool) error {
	tbls := New(ctx, pool)

	for _, step := range []func() error{
		func() error { return insertAll(op.Tags, tbls.InsertTag) },
		func() error { return insertAll(op.Regions, tbls.InsertRegion) },
		func() error { return insertAll(op.TenantGroups, tbls.InsertTenantGroup) },
		func() error { return insertAll(op.Tenants, tbls.InsertTenant) },
		func() error { return insertAll(op.Sites, tbls.InsertSite) },
		func() error { return insertAll(op.Racks, tbls.InsertRack) },
		func() error { return insertAll(op.Devices, tbls.InsertDevice) },
		func() error { return insertAll(op.VirtualMachines, tbls.InsertVirtualMachine) },
		func() error { return insertAll(op.Providers, tbls.InsertProvider) },
		func() error { return insertAll(op.Circuits, tbls.InsertCircuit) },
		func() error { return insertAll(op.Services, tbls.InsertService) },
		func() error { return insertAll(op.VLANGroups, tbls.InsertVLANGroup) },
		func() error { return insertAll(op.Numbers, tbls.InsertNumber) },
		func() error { return insertAll(op.VoiceCircuits, tbls.InsertVoiceCircuit) },
		func() error { return insertAll(op.TaggedItems, tbls.InsertTaggedItem) },
	} {
		if err := step(); err != nil {
			return err
		}
	}

	for _, table := range []string{
		"tag", "region", "tenant_group", "tenant", "site", "rack", "device", "virtual_machine",
		"provider", "circuit", "service", "vlan_group", "number", "voice_circuit",
	} {
		if err := tbls.resetSequence(table); err != nil {
			return err
		}
	}
	return nil
}
