package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/voipinv/cmd/voipd/handlers"
	httptestutil "github.com/opst/voipinv/internal/testutils/http"
	apivoip "github.com/opst/voipinv/pkg/api/types/voip"
	kdb "github.com/opst/voipinv/pkg/db"
	mockdb "github.com/opst/voipinv/pkg/db/mocks"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/filtersets"
	"github.com/opst/voipinv/pkg/utils/try"
)

type observation struct {
	collection string
	constraint query.Constraint
}

type observer struct {
	observed []observation
}

func (o *observer) ObserveConstraint(collection string, c query.Constraint) {
	o.observed = append(o.observed, observation{collection: collection, constraint: c})
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	herr := new(echo.HTTPError)
	if !errors.As(err, &herr) {
		t.Fatalf("error is not HTTPError: %+v", err)
	}
	return herr.Code
}

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func number(id int64, n string) kdb.Number {
	return kdb.Number{Id: id, Number: n, Created: created, LastUpdated: created}
}

type listBody struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []struct {
		Id  int64  `json:"id"`
		URL string `json:"url"`
	} `json:"results"`
}

func TestPaging_Page(t *testing.T) {
	paging := handlers.Paging{Default: 50, Max: 1000}

	for name, testcase := range map[string]struct {
		query string
		want  kdb.Page
	}{
		"no params gives default limit": {
			query: "",
			want:  kdb.Page{Limit: 50},
		},
		"limit and offset are read": {
			query: "limit=10&offset=20",
			want:  kdb.Page{Limit: 10, Offset: 20},
		},
		"limit over max is clamped": {
			query: "limit=5000",
			want:  kdb.Page{Limit: 1000},
		},
		"limit=0 means max": {
			query: "limit=0",
			want:  kdb.Page{Limit: 1000},
		},
	} {
		t.Run(name, func(t *testing.T) {
			params := try.To(url.ParseQuery(testcase.query)).OrFatal(t)
			got := try.To(paging.Page(params)).OrFatal(t)
			if got != testcase.want {
				t.Errorf("page: got %+v, want %+v", got, testcase.want)
			}
		})
	}

	for _, q := range []string{"limit=-1", "limit=ten", "offset=-5", "offset=x"} {
		t.Run("invalid: "+q, func(t *testing.T) {
			params := try.To(url.ParseQuery(q)).OrFatal(t)
			_, err := paging.Page(params)
			if err == nil {
				t.Fatal("expected error, but not")
			}
			if code := httpStatus(t, err); code != http.StatusBadRequest {
				t.Errorf("status: got %d", code)
			}
		})
	}
}

func TestListHandler(t *testing.T) {
	builder := filtersets.Builder{
		RegionTree:      mockdb.NewHierarchy[kdb.Region](),
		TenantGroupTree: mockdb.NewHierarchy[kdb.TenantGroup](),
		NullSentinel:    "null",
	}
	paging := handlers.Paging{Default: 50, Max: 100}

	t.Run("it finds records with constraint and page, and links neighbor pages", func(t *testing.T) {
		numbers := mockdb.NewWritable[kdb.Number, kdb.NumberSpec]()
		numbers.Impl.Find = func(context.Context, query.Constraint, kdb.Page) (kdb.Found[kdb.Number], error) {
			return kdb.Found[kdb.Number]{Count: 3, Items: []kdb.Number{number(2, "+81300000002")}}, nil
		}
		obs := &observer{}
		testee := handlers.ListHandler(
			"numbers", numbers, builder.Numbers(), paging, obs, apivoip.ComposeNumber,
		)

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/numbers/?limit=1&offset=1&tag=core&unknown=x")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d", resp.Code)
		}
		if got := numbers.Calls.Find.Times(); got != 1 {
			t.Fatalf("Find is called %d times", got)
		}
		call := numbers.Calls.Find[0]
		if want := (kdb.Page{Limit: 1, Offset: 1}); call.Page != want {
			t.Errorf("page: got %+v, want %+v", call.Page, want)
		}
		if !call.Constraint.Distinct {
			t.Errorf("tag filter should request distinct: %s", call.Constraint)
		}
		if len(obs.observed) != 1 || obs.observed[0].collection != "numbers" {
			t.Errorf("observed: %+v", obs.observed)
		}

		body := listBody{}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Count != 3 {
			t.Errorf("count: %d", body.Count)
		}
		if len(body.Results) != 1 || body.Results[0].Id != 2 || body.Results[0].URL != "/api/numbers/2/" {
			t.Errorf("results: %+v", body.Results)
		}
		wantNext := "http://example.com/api/numbers/?limit=1&offset=2&tag=core&unknown=x"
		if body.Next == nil || *body.Next != wantNext {
			t.Errorf("next: got %v, want %s", body.Next, wantNext)
		}
		wantPrev := "http://example.com/api/numbers/?limit=1&tag=core&unknown=x"
		if body.Previous == nil || *body.Previous != wantPrev {
			t.Errorf("previous: got %v, want %s", body.Previous, wantPrev)
		}
	})

	t.Run("it passes empty constraint to store when filters select nothing", func(t *testing.T) {
		numbers := mockdb.NewWritable[kdb.Number, kdb.NumberSpec]()
		numbers.Impl.Find = func(context.Context, query.Constraint, kdb.Page) (kdb.Found[kdb.Number], error) {
			return kdb.Found[kdb.Number]{Count: 0, Items: []kdb.Number{}}, nil
		}
		obs := &observer{}
		testee := handlers.ListHandler(
			"numbers", numbers, builder.Numbers(), paging, obs, apivoip.ComposeNumber,
		)

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/numbers/?tenant_id=acme")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}
		if !numbers.Calls.Find[0].Constraint.IsEmpty() {
			t.Errorf("constraint: %s", numbers.Calls.Find[0].Constraint)
		}

		body := listBody{}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Count != 0 || len(body.Results) != 0 || body.Next != nil || body.Previous != nil {
			t.Errorf("body: %+v", body)
		}
	})

	t.Run("it responds 400 for invalid page without finding", func(t *testing.T) {
		numbers := mockdb.NewWritable[kdb.Number, kdb.NumberSpec]()
		testee := handlers.ListHandler(
			"numbers", numbers, builder.Numbers(), paging, &observer{}, apivoip.ComposeNumber,
		)

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/numbers/?limit=many")
		err := testee(c)
		if code := httpStatus(t, err); code != http.StatusBadRequest {
			t.Errorf("status: got %d", code)
		}
		if got := numbers.Calls.Find.Times(); got != 0 {
			t.Errorf("Find is called %d times", got)
		}
	})

	t.Run("it responds 500 when resolving tree fails", func(t *testing.T) {
		regions := mockdb.NewHierarchy[kdb.Region]()
		regions.ImplDescendants = func(context.Context, []string) ([]int64, error) {
			return nil, errors.New("fake error")
		}
		b := builder
		b.RegionTree = regions

		numbers := mockdb.NewWritable[kdb.Number, kdb.NumberSpec]()
		testee := handlers.ListHandler(
			"numbers", numbers, b.Numbers(), paging, &observer{}, apivoip.ComposeNumber,
		)

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/numbers/?region=asia")
		err := testee(c)
		if code := httpStatus(t, err); code != http.StatusInternalServerError {
			t.Errorf("status: got %d", code)
		}
		if got := regions.CallsDescendants; len(got) != 1 || got[0][0] != "asia" {
			t.Errorf("Descendants is called with %v", got)
		}
	})

	t.Run("it responds 500 when store fails", func(t *testing.T) {
		numbers := mockdb.NewWritable[kdb.Number, kdb.NumberSpec]()
		numbers.Impl.Find = func(context.Context, query.Constraint, kdb.Page) (kdb.Found[kdb.Number], error) {
			return kdb.Found[kdb.Number]{}, errors.New("fake error")
		}
		testee := handlers.ListHandler(
			"numbers", numbers, builder.Numbers(), paging, &observer{}, apivoip.ComposeNumber,
		)

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/numbers/")
		if code := httpStatus(t, testee(c)); code != http.StatusInternalServerError {
			t.Errorf("status: got %d", code)
		}
	})
}

func TestGetHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		id       string
		getErr   error
		wantCode int
		wantGet  bool
	}{
		"found": {
			id: "7", wantCode: http.StatusOK, wantGet: true,
		},
		"missing": {
			id: "7", getErr: kdb.NewErrMissing("number", int64(7)),
			wantCode: http.StatusNotFound, wantGet: true,
		},
		"non-integer id": {
			id: "seven", wantCode: http.StatusNotFound, wantGet: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			numbers := mockdb.NewWritable[kdb.Number, kdb.NumberSpec]()
			numbers.Impl.Get = func(_ context.Context, id int64) (kdb.Number, error) {
				if testcase.getErr != nil {
					return kdb.Number{}, testcase.getErr
				}
				return number(id, "+81300000007"), nil
			}
			testee := handlers.GetHandler(numbers, apivoip.ComposeNumber)

			e := echo.New()
			c, resp := httptestutil.GetWithParams(
				e, "/api/numbers/"+testcase.id+"/",
				[]httptestutil.Param{{Name: handlers.IdParam, Value: testcase.id}},
			)
			err := testee(c)

			if testcase.wantGet != (numbers.Calls.Get.Times() == 1) {
				t.Errorf("Get calls: %v", numbers.Calls.Get)
			}
			if testcase.wantCode != http.StatusOK {
				if code := httpStatus(t, err); code != testcase.wantCode {
					t.Errorf("status: got %d, want %d", code, testcase.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := apivoip.Number{}
			if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Id != 7 || got.Number != "+81300000007" || got.Tags == nil {
				t.Errorf("body: %+v", got)
			}
		})
	}
}
