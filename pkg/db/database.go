package db

import (
	"context"

	"github.com/opst/voipinv/pkg/filters"
	"github.com/opst/voipinv/pkg/filters/query"
)

// Page is a window of a list.
type Page struct {
	// max number of records. 0 means "no limit".
	Limit int

	// number of records to be skipped.
	Offset int
}

// Found is a page of records with total count of records satisfying the constraint.
type Found[T any] struct {
	// Count is the number of all records satisfying the constraint, regardless of the page.
	Count int64

	// Items are records in the page.
	Items []T
}

// Finder looks up records.
type Finder[T any] interface {
	// Find returns records satisfying the constraint, ordered by id.
	//
	// # Args
	//
	// - ctx: context
	//
	// - c: constraint. When it is query.Empty(), the result is empty without touching records.
	//
	// - page: window of result.
	//
	// # Returns
	//
	// - Found[T]: found records.
	//
	// - error: failure on lookup. Fields unknown to the store cause an error.
	Find(ctx context.Context, c query.Constraint, page Page) (Found[T], error)

	// Get returns a record with the id.
	//
	// When there is no such record, it returns an error wrapping ErrMissing.
	Get(ctx context.Context, id int64) (T, error)
}

// Writer creates, updates and deletes records of T with specs S.
type Writer[T any, S any] interface {
	// Create validates spec and inserts a new record.
	//
	// # Returns
	//
	// - T: created record.
	//
	// - error: ErrInvalid for invalid spec or references to missing records,
	// ErrConflict for duplicated records.
	Create(ctx context.Context, spec S) (T, error)

	// Update validates spec and replaces the record with the id.
	//
	// Errors are same as Create, and ErrMissing when the record is not found.
	Update(ctx context.Context, id int64, spec S) (T, error)

	// Delete removes the record with the id.
	//
	// When there is no such record, it returns an error wrapping ErrMissing.
	Delete(ctx context.Context, id int64) error
}

// HierarchyInterface is a store of hierarchical records.
//
// It resolves slugs or ids of nodes into ids of their descendants.
type HierarchyInterface[T any] interface {
	Finder[T]
	filters.TreeResolver
}

type NumberInterface interface {
	Finder[Number]
	Writer[Number, NumberSpec]
}

type VoiceCircuitInterface interface {
	Finder[VoiceCircuit]
	Writer[VoiceCircuit, VoiceCircuitSpec]
}

type ServiceInterface interface {
	Finder[Service]
	Writer[Service, ServiceSpec]
}

// SchemaInterface represents a database schema.
type SchemaInterface interface {
	// Upgrade upgrades the schema to the latest version.
	Upgrade(ctx context.Context) error

	// Version returns the current version of the schema.
	Version(ctx context.Context) (int, error)

	// Context returns a context which is canceled when the schema in database is not latest.
	//
	// # Returns
	//
	// - context.Context: canceled when the schema in database gets older than the repository.
	//
	// - context.CancelFunc: cancels the context.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}

type Database interface {
	Providers() Finder[Provider]
	Circuits() Finder[Circuit]
	Tenants() Finder[Tenant]
	TenantGroups() HierarchyInterface[TenantGroup]
	Regions() HierarchyInterface[Region]
	Sites() Finder[Site]
	Racks() Finder[Rack]
	Services() ServiceInterface
	VLANGroups() Finder[VLANGroup]
	Tags() Finder[Tag]
	Numbers() NumberInterface
	VoiceCircuits() VoiceCircuitInterface
	Schema() SchemaInterface
	Close() error
}
