// this package provide "mock" implementation of database for testing.
package mocks

import (
	"context"
	"errors"

	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/filters/query"
)

type CallLog[T any] []T

func (cl CallLog[T]) Times() int {
	return len(cl)
}

type FindArgs struct {
	Constraint query.Constraint
	Page       kdb.Page
}

// Finder is a mock of kdb.Finder[T].
type Finder[T any] struct {
	Impl struct {
		Find func(context.Context, query.Constraint, kdb.Page) (kdb.Found[T], error)
		Get  func(context.Context, int64) (T, error)
	}
	Calls struct {
		Find CallLog[FindArgs]
		Get  CallLog[int64]
	}
}

func NewFinder[T any]() *Finder[T] {
	return &Finder[T]{}
}

var _ kdb.Finder[kdb.Tag] = &Finder[kdb.Tag]{}

func (m *Finder[T]) Find(ctx context.Context, c query.Constraint, page kdb.Page) (kdb.Found[T], error) {
	m.Calls.Find = append(m.Calls.Find, FindArgs{Constraint: c, Page: page})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, c, page)
	}

	panic(errors.New("should not be called"))
}

func (m *Finder[T]) Get(ctx context.Context, id int64) (T, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}

	panic(errors.New("should not be called"))
}

// Hierarchy is a mock of kdb.HierarchyInterface[T].
type Hierarchy[T any] struct {
	Finder[T]
	ImplDescendants  func(context.Context, []string) ([]int64, error)
	CallsDescendants CallLog[[]string]
}

func NewHierarchy[T any]() *Hierarchy[T] {
	return &Hierarchy[T]{}
}

var _ kdb.HierarchyInterface[kdb.Region] = &Hierarchy[kdb.Region]{}

func (m *Hierarchy[T]) Descendants(ctx context.Context, refs []string) ([]int64, error) {
	m.CallsDescendants = append(m.CallsDescendants, refs)
	if m.ImplDescendants != nil {
		return m.ImplDescendants(ctx, refs)
	}

	panic(errors.New("should not be called"))
}

type UpdateArgs[S any] struct {
	Id   int64
	Spec S
}

// Writable is a mock of Finder[T] and Writer[T, S].
type Writable[T any, S any] struct {
	Finder[T]
	ImplWrite struct {
		Create func(context.Context, S) (T, error)
		Update func(context.Context, int64, S) (T, error)
		Delete func(context.Context, int64) error
	}
	CallsWrite struct {
		Create CallLog[S]
		Update CallLog[UpdateArgs[S]]
		Delete CallLog[int64]
	}
}

func NewWritable[T any, S any]() *Writable[T, S] {
	return &Writable[T, S]{}
}

var (
	_ kdb.NumberInterface       = &Writable[kdb.Number, kdb.NumberSpec]{}
	_ kdb.VoiceCircuitInterface = &Writable[kdb.VoiceCircuit, kdb.VoiceCircuitSpec]{}
	_ kdb.ServiceInterface      = &Writable[kdb.Service, kdb.ServiceSpec]{}
)

func (m *Writable[T, S]) Create(ctx context.Context, spec S) (T, error) {
	m.CallsWrite.Create = append(m.CallsWrite.Create, spec)
	if m.ImplWrite.Create != nil {
		return m.ImplWrite.Create(ctx, spec)
	}

	panic(errors.New("should not be called"))
}

func (m *Writable[T, S]) Update(ctx context.Context, id int64, spec S) (T, error) {
	m.CallsWrite.Update = append(m.CallsWrite.Update, UpdateArgs[S]{Id: id, Spec: spec})
	if m.ImplWrite.Update != nil {
		return m.ImplWrite.Update(ctx, id, spec)
	}

	panic(errors.New("should not be called"))
}

func (m *Writable[T, S]) Delete(ctx context.Context, id int64) error {
	m.CallsWrite.Delete = append(m.CallsWrite.Delete, id)
	if m.ImplWrite.Delete != nil {
		return m.ImplWrite.Delete(ctx, id)
	}

	panic(errors.New("should not be called"))
}
