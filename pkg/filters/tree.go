package filters

import (
	"context"
	"slices"

	"github.com/opst/voipinv/pkg/filters/query"
)

// TreeResolver expands references to nodes of a hierarchy.
type TreeResolver interface {
	// Descendants returns ids of nodes referred by refs and all of their descendants.
	//
	// The nodes referred are included in the result.
	// References which do not refer any node are ignored.
	//
	// # Args
	//
	// - ctx: context
	//
	// - refs: references to nodes (ids or slugs, depending on the resolver).
	//
	// # Returns
	//
	// - []int64: ids of found nodes and their descendants. The order is unspecified.
	//
	// - error: failure on lookup.
	Descendants(ctx context.Context, refs []string) ([]int64, error)
}

// TreeNode filters a field referring a node in a hierarchy,
// selecting records referring the given nodes or their descendants.
//
// When the null sentinel is given as a value,
// records whose field is null are also selected.
type TreeNode struct {
	Field        string
	Resolver     TreeResolver
	NullSentinel string
}

var _ Filter = TreeNode{}

// NewTreeNode creates TreeNode filter.
//
// # Args
//
// - field: field referring id of the hierarchical entity.
//
// - resolver: TreeResolver for the hierarchy.
//
// - nullSentinel: input value meaning "null".
func NewTreeNode(field string, resolver TreeResolver, nullSentinel string) TreeNode {
	return TreeNode{Field: field, Resolver: resolver, NullSentinel: nullSentinel}
}

func (tn TreeNode) Apply(ctx context.Context, values []string) (query.Constraint, error) {
	values = nonBlank(values)
	if len(values) == 0 {
		return query.None(), nil
	}

	wantsNull := false
	refs := make([]string, 0, len(values))
	for _, v := range values {
		if tn.NullSentinel != "" && v == tn.NullSentinel {
			wantsNull = true
			continue
		}
		refs = append(refs, v)
	}

	var ids []int64
	if len(refs) != 0 {
		found, err := tn.Resolver.Descendants(ctx, refs)
		if err != nil {
			return query.Constraint{}, err
		}
		ids = found
	}

	es := []query.Expr{}
	if len(ids) != 0 {
		slices.Sort(ids)
		ids = slices.Compact(ids)
		vals := make([]any, len(ids))
		for i := range ids {
			vals[i] = ids[i]
		}
		es = append(es, query.In{Field: tn.Field, Values: vals})
	}
	if wantsNull {
		es = append(es, query.IsNull{Field: tn.Field})
	}

	// no nodes found and no null requested: nothing matches.
	return query.Where(query.OrAll(es...)), nil
}

// Tree is an in-memory hierarchy.
//
// It implements TreeResolver, resolving references as slugs or decimal ids.
type Tree struct {
	parent map[int64]*int64
	slug   map[string]int64
	kids   map[int64][]int64
}

// NewTree creates an empty Tree.
func NewTree() *Tree {
	return &Tree{
		parent: map[int64]*int64{},
		slug:   map[string]int64{},
		kids:   map[int64][]int64{},
	}
}

// Add registers a node.
//
// # Args
//
// - id: id of the node.
//
// - slug: slug of the node. Empty slug is not registered.
//
// - parent: id of the parent node. nil for root nodes.
func (t *Tree) Add(id int64, slug string, parent *int64) *Tree {
	t.parent[id] = parent
	if slug != "" {
		t.slug[slug] = id
	}
	if parent != nil {
		t.kids[*parent] = append(t.kids[*parent], id)
	}
	return t
}

var _ TreeResolver = &Tree{}

func (t *Tree) Descendants(_ context.Context, refs []string) ([]int64, error) {
	seen := map[int64]struct{}{}
	queue := []int64{}
	for _, r := range refs {
		id, ok := t.lookup(r)
		if !ok {
			continue
		}
		queue = append(queue, id)
	}

	for len(queue) != 0 {
		id := queue[0]
		queue = queue[1:]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		queue = append(queue, t.kids[id]...)
	}

	ret := make([]int64, 0, len(seen))
	for id := range seen {
		ret = append(ret, id)
	}
	slices.Sort(ret)
	return ret, nil
}

func (t *Tree) lookup(ref string) (int64, bool) {
	if id, ok := t.slug[ref]; ok {
		return id, true
	}
	id, err := Integer.Parse(ref)
	if err != nil {
		return 0, false
	}
	if _, ok := t.parent[id.(int64)]; !ok {
		return 0, false
	}
	return id.(int64), true
}
