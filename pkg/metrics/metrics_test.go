package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/opst/voipinv/internal/testutils/http"
	"github.com/opst/voipinv/pkg/filters/query"
	"github.com/opst/voipinv/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	for name, testcase := range map[string]struct {
		when query.Constraint
		then string
	}{
		"none":        {query.None(), metrics.Unconstrained},
		"zero value":  {query.Constraint{}, metrics.Unconstrained},
		"empty":       {query.Empty(), metrics.Empty},
		"constrained": {query.Where(query.Eq{Field: "id", Value: int64(1)}), metrics.Constrained},
		"empty in conjunction": {
			query.Merge(query.Where(query.Eq{Field: "id", Value: int64(1)}), query.Empty()),
			metrics.Empty,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := metrics.Outcome(testcase.when); got != testcase.then {
				t.Errorf("got %s, want %s", got, testcase.then)
			}
		})
	}
}

func TestObserveConstraint(t *testing.T) {
	registry := prometheus.NewRegistry()
	testee := metrics.New(registry)

	testee.ObserveConstraint("numbers", query.None())
	testee.ObserveConstraint("numbers", query.Empty())
	testee.ObserveConstraint("numbers", query.Empty())

	expected := `
# HELP voipinv_filter_constraints_total Number of filter set results by outcome
# TYPE voipinv_filter_constraints_total counter
voipinv_filter_constraints_total{collection="numbers",outcome="empty"} 2
voipinv_filter_constraints_total{collection="numbers",outcome="unconstrained"} 1
`
	if err := testutil.GatherAndCompare(
		registry, strings.NewReader(expected), "voipinv_filter_constraints_total",
	); err != nil {
		t.Error(err)
	}
}

func TestMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	testee := metrics.New(registry)

	e := echo.New()
	run := func(h echo.HandlerFunc) {
		c, _ := httptestutil.Get(e, "/api/numbers/1/")
		c.SetPath("/api/numbers/:id/")
		testee.Middleware()(h)(c)
	}

	run(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	run(func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })
	run(func(c echo.Context) error { return errors.New("boom") })

	expected := `
# HELP voipinv_api_requests_total Total number of API requests
# TYPE voipinv_api_requests_total counter
voipinv_api_requests_total{code="200",method="GET",route="/api/numbers/:id/"} 1
voipinv_api_requests_total{code="404",method="GET",route="/api/numbers/:id/"} 1
voipinv_api_requests_total{code="500",method="GET",route="/api/numbers/:id/"} 1
`
	if err := testutil.GatherAndCompare(
		registry, strings.NewReader(expected), "voipinv_api_requests_total",
	); err != nil {
		t.Error(err)
	}
	if got, err := testutil.GatherAndCount(registry, "voipinv_api_request_duration_seconds"); err != nil {
		t.Error(err)
	} else if got != 1 {
		t.Errorf("duration series: got %d", got)
	}
}

func TestHandler(t *testing.T) {
	testee := metrics.New(nil)
	testee.ObserveConstraint("tags", query.None())

	srv := httptest.NewServer(testee.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `voipinv_filter_constraints_total{collection="tags",outcome="unconstrained"} 1`) {
		t.Errorf("metrics are not exposed:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("go collector is not registered")
	}
}
