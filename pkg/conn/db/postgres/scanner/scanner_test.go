package scanner_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	"github.com/opst/voipinv/pkg/cmp"
	"github.com/opst/voipinv/pkg/conn/db/postgres/scanner"
)

// fakeRows is pgx.Rows over in-memory values.
type fakeRows struct {
	columns []string
	values  [][]any
	cursor  int
	err     error
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }

func (r *fakeRows) FieldDescriptions() []pgproto3.FieldDescription {
	fds := make([]pgproto3.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgproto3.FieldDescription{Name: []byte(c)}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if len(r.values) <= r.cursor {
		return false
	}
	r.cursor += 1
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.cursor-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.cursor-1]
	if len(dest) != len(row) {
		return fmt.Errorf("%d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type rackRow struct {
	Id       int64
	SiteId   int64
	RackName string `sql:"name"`
	unused   bool
}

func TestScanner_Struct(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"id", "site_id", "name"},
		values: [][]any{
			{int64(1), int64(10), "rack-a"},
			{int64(2), int64(10), "rack-b"},
		},
	}

	got, err := scanner.New[rackRow]().ScanAll(rows)
	if err != nil {
		t.Fatal(err)
	}
	want := []rackRow{
		{Id: 1, SiteId: 10, RackName: "rack-a"},
		{Id: 2, SiteId: 10, RackName: "rack-b"},
	}
	if !cmp.SliceEq(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestScanner_UnknownColumn(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"id", "facility"},
		values:  [][]any{{int64(1), "f"}},
	}
	if _, err := scanner.New[rackRow]().ScanAll(rows); err == nil {
		t.Error("expected error, but got nil")
	}
}

func TestScanner_SingleColumn(t *testing.T) {
	t.Run("primitive", func(t *testing.T) {
		rows := &fakeRows{
			columns: []string{"id"},
			values:  [][]any{{int64(3)}, {int64(1)}},
		}
		got, err := scanner.New[int64]().ScanAll(rows)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(got, []int64{3, 1}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("time.Time", func(t *testing.T) {
		ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		rows := &fakeRows{
			columns: []string{"created"},
			values:  [][]any{{ts}},
		}
		got, err := scanner.New[time.Time]().ScanAll(rows)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || !got[0].Equal(ts) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("too many columns", func(t *testing.T) {
		rows := &fakeRows{
			columns: []string{"id", "name"},
			values:  [][]any{{int64(3), "x"}},
		}
		if _, err := scanner.New[int64]().ScanAll(rows); err == nil {
			t.Error("expected error, but got nil")
		}
	})
}

func TestScanner_RowsError(t *testing.T) {
	expected := errors.New("fake")
	rows := &fakeRows{columns: []string{"id"}, err: expected}
	if _, err := scanner.New[int64]().ScanAll(rows); !errors.Is(err, expected) {
		t.Errorf("got %v, want %v", err, expected)
	}
}
