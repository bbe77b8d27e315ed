package schema_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	testctx "github.com/opst/voipinv/internal/testutils/context"
	"github.com/opst/voipinv/pkg/cmp"
	kpool "github.com/opst/voipinv/pkg/conn/db/postgres/pool"
	"github.com/opst/voipinv/pkg/conn/db/postgres/scanner"
	"github.com/opst/voipinv/pkg/db/postgres/pool/testenv"
	"github.com/opst/voipinv/pkg/db/postgres/schema"
	"github.com/opst/voipinv/pkg/utils/try"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	t.Cleanup(cancel)
	return ctx
}

func given(ctx context.Context, t *testing.T, pool kpool.Pool, sqlfile string) {
	t.Helper()
	sql, err := os.ReadFile(sqlfile)
	if errors.Is(err, os.ErrNotExist) || len(sql) == 0 {
		return
	}
	if err != nil {
		t.Fatal(err)
	}
	try.To(pool.Exec(ctx, string(sql))).OrFatal(t)
}

func TestPgSchema_Upgrade(t *testing.T) {
	type When struct {
		Testdata string
	}

	type Then struct {
		VersionBefore int
		VersionAfter  int

		TableFooNotExists bool
		TableFoo          []exampleTable

		TableBarNotExists bool
		TableBar          []exampleTable
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			ctx := testContext(t)
			pool := testenv.NewPoolBroaker(ctx, t).GetPool(ctx, t)
			given(ctx, t, pool, filepath.Join(when.Testdata, "given.sql"))

			testee := schema.New(pool, filepath.Join(when.Testdata, "versions"))
			if got := try.To(testee.Version(ctx)).OrFatal(t); got != then.VersionBefore {
				t.Errorf("version before upgrade\n- got: %v\n- want: %v", got, then.VersionBefore)
			}

			if err := testee.Upgrade(ctx); err != nil {
				t.Fatalf("failed to upgrade schema: %v", err)
			}

			if got := try.To(testee.Version(ctx)).OrFatal(t); got != then.VersionAfter {
				t.Errorf("version after upgrade\n- got: %v\n- want: %v", got, then.VersionAfter)
			}

			for _, tbl := range []struct {
				name      string
				notExists bool
				want      []exampleTable
			}{
				{name: "foo", notExists: then.TableFooNotExists, want: then.TableFoo},
				{name: "bar", notExists: then.TableBarNotExists, want: then.TableBar},
			} {
				got, err := scanner.New[exampleTable]().QueryAll(
					ctx, pool, `table "`+tbl.name+`"`,
				)
				if err != nil {
					pgerr := new(pgconn.PgError)
					if !errors.As(err, &pgerr) || !tbl.notExists || pgerr.Code != pgerrcode.UndefinedTable {
						t.Fatal(err)
					}
				}
				if !cmp.SliceContentEq(got, tbl.want) {
					t.Errorf("table %s\n- got: %v\n- want: %v", tbl.name, got, tbl.want)
				}
			}
		}
	}

	t.Run("build schema from scratch", theory(
		When{Testdata: "testdata/case1"},
		Then{
			VersionBefore: 0,
			VersionAfter:  2,
			TableFoo: []exampleTable{
				{Id: 1, Name: "foo-1"},
				{Id: 2, Name: "foo-2"},
			},
			TableBar: []exampleTable{
				{Id: 1, Name: "bar-1"},
			},
		},
	))

	t.Run("upgrade schema from version 1 to 2", theory(
		When{Testdata: "testdata/case2"},
		Then{
			VersionBefore: 1,
			VersionAfter:  2,
			TableFoo: []exampleTable{
				{Id: 1, Name: "foo-1"},
				{Id: 2, Name: "foo-2"},
			},
			TableBar: []exampleTable{
				{Id: 1, Name: "bar-1"},
			},
		},
	))

	t.Run("no upgrade", theory(
		When{Testdata: "testdata/case3"},
		Then{
			VersionBefore:     2,
			VersionAfter:      2,
			TableFooNotExists: true,
			TableBarNotExists: true,
		},
	))
}

func TestSchema_Context(t *testing.T) {
	ctx := testContext(t)
	pool := testenv.NewPoolBroaker(ctx, t).GetPool(ctx, t)

	// no schema_version table: context should be canceled.
	func() {
		testee := schema.New(pool, "testdata/case4/versions")
		sctx, cancel := testee.Context(ctx)
		defer cancel()

		<-sctx.Done()
		if err := sctx.Err(); !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	try.To(pool.Exec(
		ctx,
		`
		CREATE TABLE "schema_version" ("version" int NOT NULL, PRIMARY KEY ("version"));
		INSERT INTO "schema_version" ("version") VALUES (1);
		`,
	)).OrFatal(t)

	// schema is up to date: context should not be canceled.
	func() {
		testee := schema.New(pool, "testdata/case4/versions")
		sctx, cancel := testee.Context(ctx)
		defer cancel()

		select {
		case <-sctx.Done():
			t.Errorf("unexpected cancelation: %v", context.Cause(sctx))
		default:
		}
	}()

	// schema is older than the repository: context should be canceled.
	func() {
		testee := schema.New(pool, "testdata/case1/versions")
		sctx, cancel := testee.Context(ctx)
		defer cancel()

		<-sctx.Done()
		if err := sctx.Err(); !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	// the repository gets a new version: context should be canceled.
	func() {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "1"), 0755); err != nil {
			t.Fatal(err)
		}

		testee := schema.New(pool, dir)
		sctx, cancel := testee.Context(ctx)
		defer cancel()

		select {
		case <-sctx.Done():
			t.Errorf("unexpected cancelation: %v", context.Cause(sctx))
		default:
		}

		if err := os.Mkdir(filepath.Join(dir, "2"), 0755); err != nil {
			t.Fatal(err)
		}

		<-sctx.Done()
		if err := sctx.Err(); !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	}()
}

func TestNull(t *testing.T) {
	testee := schema.Null()
	if err := testee.Upgrade(context.Background()); err == nil {
		t.Error("null schema should not upgrade")
	}
	if v := try.To(testee.Version(context.Background())).OrFatal(t); v != -1 {
		t.Errorf("version: got %d, want -1", v)
	}
	ctx, cancel := testee.Context(context.Background())
	defer cancel()
	select {
	case <-ctx.Done():
		t.Error("context of null schema should not be canceled")
	default:
	}
}

// Applies the repository of this project, checking backfills of version 3.
func TestRepository_Backfill(t *testing.T) {
	ctx := testContext(t)
	pool := testenv.NewPoolBroaker(ctx, t).GetPool(ctx, t)

	repo := t.TempDir()
	for _, v := range []string{"1", "2"} {
		if err := os.CopyFS(
			filepath.Join(repo, v),
			os.DirFS(filepath.Join("..", "..", "..", "..", "schema", "repository", v)),
		); err != nil {
			t.Fatal(err)
		}
	}

	testee := schema.New(pool, repo)
	if err := testee.Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	try.To(pool.Exec(
		ctx,
		`
		INSERT INTO "region" ("id", "name", "slug") VALUES (1, 'Japan', 'jp');
		INSERT INTO "site" ("id", "name", "slug", "region_id") VALUES
			(1, 'Tokyo DC', 'tokyo-dc', 1),
			(2, 'Nowhere', 'nowhere', NULL);
		INSERT INTO "rack" ("id", "name", "site_id") VALUES (1, 'r1', 1), (2, 'r2', 2);
		INSERT INTO "device" ("id", "name") VALUES (1, 'pbx');
		INSERT INTO "virtual_machine" ("id", "name") VALUES (1, 'sbc');
		INSERT INTO "service" ("id", "name", "protocol", "ports", "device_id", "virtual_machine_id") VALUES
			(1, 'sip', 'udp', '{5060}', 1, NULL),
			(2, 'rtp', 'udp', '{10000,10001}', NULL, 1);
		`,
	)).OrFatal(t)

	if err := os.CopyFS(
		filepath.Join(repo, "3"),
		os.DirFS(filepath.Join("..", "..", "..", "..", "schema", "repository", "3")),
	); err != nil {
		t.Fatal(err)
	}
	if err := testee.Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	type rackRegion struct {
		Id       int64
		RegionId *int64
	}
	racks := try.To(scanner.New[rackRegion]().QueryAll(
		ctx, pool, `select "id", "region_id" from "rack" order by "id"`,
	)).OrFatal(t)
	if len(racks) != 2 {
		t.Fatalf("racks: %v", racks)
	}
	if racks[0].RegionId == nil || *racks[0].RegionId != 1 {
		t.Errorf("region of rack 1: got %v, want 1", racks[0].RegionId)
	}
	if racks[1].RegionId != nil {
		t.Errorf("region of rack 2: got %v, want nil", *racks[1].RegionId)
	}

	kinds := try.To(scanner.New[string]().QueryAll(
		ctx, pool, `select "parent_kind" from "service" order by "id"`,
	)).OrFatal(t)
	if !cmp.SliceEq(kinds, []string{"device", "virtualmachine"}) {
		t.Errorf("parent kinds: got %v", kinds)
	}
}

type exampleTable struct {
	Id   int
	Name string
}
