package filters

import (
	"context"

	"github.com/opst/voipinv/pkg/filters/query"
)

// NumericArray filters an integer array field by a single number,
// selecting records whose array contains the number.
//
// Absent (or non-numeric) input constrains nothing.
type NumericArray struct {
	Field string
}

var _ Filter = NumericArray{}

func NewNumericArray(field string) NumericArray {
	return NumericArray{Field: field}
}

func (na NumericArray) Apply(_ context.Context, values []string) (query.Constraint, error) {
	v := first(values)
	if v == "" {
		return query.None(), nil
	}
	n, err := Integer.Parse(v)
	if err != nil {
		return query.None(), nil
	}
	return query.Where(query.ArrayContains{Field: na.Field, Values: []any{n}}), nil
}
