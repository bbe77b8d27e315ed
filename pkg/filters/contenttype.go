package filters

import (
	"context"
	"strings"

	"github.com/opst/voipinv/pkg/filters/query"
)

// ContentType filters a polymorphic type reference by "<namespace>.<kind>" (case-insensitive).
//
// Input not having exactly one "." selects no record.
// Empty input constrains nothing.
type ContentType struct {
	// field of namespace part (app label) of the type reference.
	NamespaceField string

	// field of kind part (model name) of the type reference.
	KindField string

	Distinct bool
}

var _ Filter = ContentType{}

// NewContentType creates a ContentType filter for a type reference field.
//
// Fields for namespace and kind are "<field>.app_label" and "<field>.model".
func NewContentType(field string) ContentType {
	return ContentType{
		NamespaceField: field + ".app_label",
		KindField:      field + ".model",
	}
}

// ParseContentType splits "<namespace>.<kind>" into lower-cased namespace and kind.
//
// It returns false when expr does not have exactly one ".", or either part is empty.
func ParseContentType(expr string) (namespace string, kind string, ok bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(expr)), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (ct ContentType) Apply(_ context.Context, values []string) (query.Constraint, error) {
	v := first(values)
	if v == "" {
		return query.None(), nil
	}

	ns, kind, ok := ParseContentType(v)
	if !ok {
		return query.Empty(), nil
	}

	return query.Constraint{
		Where: query.And{
			query.Eq{Field: ct.NamespaceField, Value: ns},
			query.Eq{Field: ct.KindField, Value: kind},
		},
		Distinct: ct.Distinct,
	}, nil
}
