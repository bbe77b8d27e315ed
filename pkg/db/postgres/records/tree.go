package records

import (
	"context"
	"fmt"
	"strconv"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	"github.com/opst/voipinv/pkg/conn/db/postgres/scanner"
	xe "github.com/opst/voipinv/pkg/errors"
)

// Descendants resolves references of nodes in a self-referencing table,
// and returns ids of the nodes and their descendants.
//
// References are slugs, or decimal ids.
//
// # Args
//
// - table: name of the table. It should have "id", "slug" and "parent_id" columns.
func Descendants(ctx context.Context, conn kpool.Queryer, table string, refs []string) ([]int64, error) {
	if len(refs) == 0 {
		return []int64{}, nil
	}

	ids := []int64{}
	for _, r := range refs {
		if id, err := strconv.ParseInt(r, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	found, err := scanner.New[int64]().QueryAll(
		ctx, conn,
		fmt.Sprintf(
			`
			with recursive "tree" as (
				select "id" from "%[1]s" where "slug" = any($1) or "id" = any($2)
				union
				select "node"."id" from "%[1]s" as "node"
				inner join "tree" on "node"."parent_id" = "tree"."id"
			)
			select "id" from "tree" order by "id"
			`,
			table,
		),
		refs, ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return found, nil
}
