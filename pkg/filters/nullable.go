package filters

import (
	"context"

	"github.com/opst/voipinv/pkg/filters/query"
)

// Nullable filters a nullable field by a single value.
//
// When the value equals NullSentinel, records whose field is null are selected.
// Otherwise, records whose field equals the value are selected.
//
// Empty input constrains nothing.
// A value not parsable as Kind can equal no field, so no record is selected.
type Nullable struct {
	Field        string
	Kind         Kind
	NullSentinel string

	// DistinctOnNull requests duplicate-result suppression for null query.
	DistinctOnNull bool
}

var _ Filter = Nullable{}

// NewNullable creates a Nullable filter.
func NewNullable(field string, kind Kind, nullSentinel string) Nullable {
	return Nullable{Field: field, Kind: kind, NullSentinel: nullSentinel}
}

func (n Nullable) Apply(_ context.Context, values []string) (query.Constraint, error) {
	v := first(values)
	if v == "" {
		return query.None(), nil
	}

	if v == n.NullSentinel {
		return query.Constraint{
			Where:    query.IsNull{Field: n.Field},
			Distinct: n.DistinctOnNull,
		}, nil
	}

	kind := n.Kind
	if kind == nil {
		kind = Text
	}
	p, err := kind.Parse(v)
	if err != nil {
		return query.Empty(), nil
	}
	return query.Where(query.Eq{Field: n.Field, Value: p}), nil
}
