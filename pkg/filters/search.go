package filters

import (
	"context"
	"strings"

	"github.com/opst/voipinv/pkg/filters/query"
)

// Search selects records which one of Fields contains the input (case-insensitive).
//
// Blank input constrains nothing.
type Search struct {
	Fields []string
}

var _ Filter = Search{}

func NewSearch(fields ...string) Search {
	return Search{Fields: fields}
}

func (s Search) Apply(_ context.Context, values []string) (query.Constraint, error) {
	term := strings.TrimSpace(first(values))
	if term == "" || len(s.Fields) == 0 {
		return query.None(), nil
	}
	es := make([]query.Expr, len(s.Fields))
	for i, f := range s.Fields {
		es[i] = query.Match{Field: f, Mode: query.IContains, Value: term}
	}
	return query.Where(query.OrAll(es...)), nil
}
