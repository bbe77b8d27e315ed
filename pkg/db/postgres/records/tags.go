package records

import (
	"context"
	"fmt"
	"slices"

	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	"github.com/opst/voipinv/pkg/conn/db/postgres/scanner"
	kdb "github.com/opst/voipinv/pkg/db"
	xe "github.com/opst/voipinv/pkg/errors"
)

// TaggedJoins returns joins of tags for records of the content type.
//
// The joined tags are aliased as "tag", and tagged items are aliased as "tagged_item".
//
// # Args
//
// - ct: content type of tagged records.
//
// - id: SQL expression of id of tagged records.
func TaggedJoins(ct kdb.ContentTypeRef, id string) string {
	return fmt.Sprintf(
		`left join "tagged_item" on "tagged_item"."object_id" = %s
			and "tagged_item"."content_type_id" = (
				select "id" from "content_type" where "app_label" = '%s' and "model" = '%s'
			)
		left join "tag" on "tag"."id" = "tagged_item"."tag_id"`,
		id, ct.AppLabel, ct.Model,
	)
}

type taggedRow struct {
	ObjectId    int64
	Id          int64
	Name        string
	Slug        string
	Color       string
	Description string
}

// TagsOf returns tags attached to records, keyed by id of records.
//
// Tags are ordered by name.
func TagsOf(ctx context.Context, conn kpool.Queryer, ct kdb.ContentTypeRef, ids []int64) (map[int64][]kdb.Tag, error) {
	rows, err := scanner.New[taggedRow]().QueryAll(
		ctx, conn,
		`
		select
			"tagged_item"."object_id",
			"tag"."id", "tag"."name", "tag"."slug", "tag"."color", "tag"."description"
		from "tagged_item"
		inner join "tag" on "tag"."id" = "tagged_item"."tag_id"
		inner join "content_type" on "content_type"."id" = "tagged_item"."content_type_id"
		where "content_type"."app_label" = $1 and "content_type"."model" = $2
			and "tagged_item"."object_id" = any($3)
		order by "tag"."name", "tag"."id"
		`,
		ct.AppLabel, ct.Model, ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	ret := map[int64][]kdb.Tag{}
	for _, r := range rows {
		ret[r.ObjectId] = append(ret[r.ObjectId], kdb.Tag{
			Id: r.Id, Name: r.Name, Slug: r.Slug, Color: r.Color, Description: r.Description,
		})
	}
	return ret, nil
}

// ContentTypeId looks up id of the content type.
//
// When it is not registered, it returns an error wrapping kdb.ErrInvalid for the field.
func ContentTypeId(ctx context.Context, conn kpool.Queryer, field string, ct kdb.ContentTypeRef) (int64, error) {
	ids, err := scanner.New[int64]().QueryAll(
		ctx, conn,
		`select "id" from "content_type" where "app_label" = $1 and "model" = $2`,
		ct.AppLabel, ct.Model,
	)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	if len(ids) == 0 {
		return 0, kdb.NewErrInvalid(field, fmt.Sprintf("unknown content type %s", ct))
	}
	return ids[0], nil
}

type tagRow struct {
	Id   int64
	Slug string
}

// ReplaceTags replaces tags attached to the record with tags having slugs.
//
// When some slug is unknown, it returns an error wrapping kdb.ErrInvalid.
func ReplaceTags(ctx context.Context, tx kpool.Tx, ct kdb.ContentTypeRef, id int64, slugs []string) error {
	ctId, err := ContentTypeId(ctx, tx, "tags", ct)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`delete from "tagged_item" where "content_type_id" = $1 and "object_id" = $2`,
		ctId, id,
	); err != nil {
		return xe.Wrap(err)
	}

	if len(slugs) == 0 {
		return nil
	}
	slugs = slices.Compact(slices.Sorted(slices.Values(slugs)))

	tags, err := scanner.New[tagRow]().QueryAll(
		ctx, tx, `select "id", "slug" from "tag" where "slug" = any($1)`, slugs,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if len(tags) != len(slugs) {
		known := map[string]struct{}{}
		for _, t := range tags {
			known[t.Slug] = struct{}{}
		}
		for _, s := range slugs {
			if _, ok := known[s]; !ok {
				return kdb.NewErrInvalid("tags", fmt.Sprintf("unknown tag %q", s))
			}
		}
	}

	tagIds := make([]int64, len(tags))
	for i, t := range tags {
		tagIds[i] = t.Id
	}
	if _, err := tx.Exec(
		ctx,
		`
		insert into "tagged_item" ("tag_id", "content_type_id", "object_id")
		select "tag_id", $2, $3 from unnest($1::bigint[]) as "t"("tag_id")
		`,
		tagIds, ctId, id,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
