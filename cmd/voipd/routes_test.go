package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/opst/voipinv/cmd/voipd/handlers"
	kdb "github.com/opst/voipinv/pkg/db"
	mockdb "github.com/opst/voipinv/pkg/db/mocks"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRoute(t *testing.T) {
	db := mockdb.NewDatabase()
	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())
	route(e, db, "null", handlers.Paging{Default: 50, Max: 1000}, metrics.New(prometheus.NewRegistry()))

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	t.Run("collections are readable", func(t *testing.T) {
		for _, c := range []string{
			"providers", "circuits", "tenants", "tenant-groups", "regions", "sites",
			"racks", "services", "vlan-groups", "tags", "numbers", "voice-circuits",
		} {
			for _, want := range []string{
				"GET /api/" + c + "/",
				"GET /api/" + c + "/:id/",
			} {
				if !registered[want] {
					t.Errorf("not registered: %s", want)
				}
			}
		}
	})

	t.Run("only numbers, voice circuits and services are writable", func(t *testing.T) {
		for _, c := range []string{"services", "numbers", "voice-circuits"} {
			for _, want := range []string{
				"POST /api/" + c + "/",
				"PUT /api/" + c + "/:id/",
				"DELETE /api/" + c + "/:id/",
			} {
				if !registered[want] {
					t.Errorf("not registered: %s", want)
				}
			}
		}
		for _, c := range []string{"providers", "regions", "tags"} {
			if registered["POST /api/"+c+"/"] {
				t.Errorf("%s should not be writable", c)
			}
		}
	})

	t.Run("requests are dispatched to stores", func(t *testing.T) {
		db.MockRegions.ImplDescendants = func(_ context.Context, refs []string) ([]int64, error) {
			return []int64{1, 2}, nil
		}
		db.MockSites.Impl.Find = func(context.Context, query.Constraint, kdb.Page) (kdb.Found[kdb.Site], error) {
			return kdb.Found[kdb.Site]{Count: 0, Items: []kdb.Site{}}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/api/sites?region=asia", nil)
		resp := httptest.NewRecorder()
		e.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("status: got %d: %s", resp.Code, resp.Body.String())
		}
		if got := db.MockSites.Calls.Find; len(got) != 1 || got[0].Page.Limit != 50 {
			t.Errorf("Find calls: %+v", got)
		}
	})

	t.Run("status tells schema version", func(t *testing.T) {
		db.MockSchema.Impl.Version = func(context.Context) (int, error) { return 3, nil }
		resp := httptest.NewRecorder()
		e.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/status/", nil))
		if resp.Code != http.StatusOK {
			t.Errorf("status: got %d", resp.Code)
		}

		db.MockSchema.Impl.Version = func(context.Context) (int, error) { return -1, errors.New("fake") }
		resp = httptest.NewRecorder()
		e.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/status/", nil))
		if resp.Code != http.StatusServiceUnavailable {
			t.Errorf("status: got %d", resp.Code)
		}
	})
}

func TestRoute_LogsFilters(t *testing.T) {
	e := echo.New()
	buf := new(bytes.Buffer)
	e.Logger.SetOutput(buf)
	e.Logger.SetLevel(log.DEBUG)
	route(e, mockdb.NewDatabase(), "null", handlers.Paging{Default: 50, Max: 1000}, metrics.New(prometheus.NewRegistry()))

	var numbers string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "/api/numbers/ accepts filters:") {
			numbers = line
		}
	}
	if numbers == "" {
		t.Fatalf("filters of numbers are not logged: %s", buf.String())
	}
	for _, want := range []string{" region ", " tag ", " tag__ic ", " forward_to_id "} {
		if !strings.Contains(numbers, want) {
			t.Errorf("%q is not in %s", want, numbers)
		}
	}
	if strings.Contains(numbers, " tag__n ") {
		t.Errorf("negated tag lookup is logged: %s", numbers)
	}
}
