package mocks

import (
	"context"
	"errors"

	kdb "github.com/opst/voipinv/pkg/db"
)

// Database is a mock of kdb.Database, made of mocks for each store.
type Database struct {
	MockProviders     *Finder[kdb.Provider]
	MockCircuits      *Finder[kdb.Circuit]
	MockTenants       *Finder[kdb.Tenant]
	MockTenantGroups  *Hierarchy[kdb.TenantGroup]
	MockRegions       *Hierarchy[kdb.Region]
	MockSites         *Finder[kdb.Site]
	MockRacks         *Finder[kdb.Rack]
	MockServices      *Writable[kdb.Service, kdb.ServiceSpec]
	MockVLANGroups    *Finder[kdb.VLANGroup]
	MockTags          *Finder[kdb.Tag]
	MockNumbers       *Writable[kdb.Number, kdb.NumberSpec]
	MockVoiceCircuits *Writable[kdb.VoiceCircuit, kdb.VoiceCircuitSpec]
	MockSchema        *Schema
}

func NewDatabase() *Database {
	return &Database{
		MockProviders:     NewFinder[kdb.Provider](),
		MockCircuits:      NewFinder[kdb.Circuit](),
		MockTenants:       NewFinder[kdb.Tenant](),
		MockTenantGroups:  NewHierarchy[kdb.TenantGroup](),
		MockRegions:       NewHierarchy[kdb.Region](),
		MockSites:         NewFinder[kdb.Site](),
		MockRacks:         NewFinder[kdb.Rack](),
		MockServices:      NewWritable[kdb.Service, kdb.ServiceSpec](),
		MockVLANGroups:    NewFinder[kdb.VLANGroup](),
		MockTags:          NewFinder[kdb.Tag](),
		MockNumbers:       NewWritable[kdb.Number, kdb.NumberSpec](),
		MockVoiceCircuits: NewWritable[kdb.VoiceCircuit, kdb.VoiceCircuitSpec](),
		MockSchema:        &Schema{},
	}
}

var _ kdb.Database = &Database{}

func (d *Database) Providers() kdb.Finder[kdb.Provider] { return d.MockProviders }
func (d *Database) Circuits() kdb.Finder[kdb.Circuit] { return d.MockCircuits }
func (d *Database) Tenants() kdb.Finder[kdb.Tenant] { return d.MockTenants }
func (d *Database) TenantGroups() kdb.HierarchyInterface[kdb.TenantGroup] { return d.MockTenantGroups }
func (d *Database) Regions() kdb.HierarchyInterface[kdb.Region] { return d.MockRegions }
func (d *Database) Sites() kdb.Finder[kdb.Site] { return d.MockSites }
func (d *Database) Racks() kdb.Finder[kdb.Rack] { return d.MockRacks }
func (d *Database) Services() kdb.ServiceInterface { return d.MockServices }
func (d *Database) VLANGroups() kdb.Finder[kdb.VLANGroup] { return d.MockVLANGroups }
func (d *Database) Tags() kdb.Finder[kdb.Tag] { return d.MockTags }
func (d *Database) Numbers() kdb.NumberInterface { return d.MockNumbers }
func (d *Database) VoiceCircuits() kdb.VoiceCircuitInterface { return d.MockVoiceCircuits }
func (d *Database) Schema() kdb.SchemaInterface { return d.MockSchema }
func (d *Database) Close() error { return nil }

type Schema struct {
	Impl struct {
		Upgrade func(context.Context) error
		Version func(context.Context) (int, error)
		Context func(context.Context) (context.Context, context.CancelFunc)
	}
}

var _ kdb.SchemaInterface = &Schema{}

func (s *Schema) Upgrade(ctx context.Context) error {
	if s.Impl.Upgrade == nil {
		return errors.New("[MOCK] not implemented")
	}
	return s.Impl.Upgrade(ctx)
}

func (s *Schema) Version(ctx context.Context) (int, error) {
	if s.Impl.Version == nil {
		return -1, errors.New("[MOCK] not implemented")
	}
	return s.Impl.Version(ctx)
}

func (s *Schema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Impl.Context == nil {
		return context.WithCancel(ctx)
	}
	return s.Impl.Context(ctx)
}
