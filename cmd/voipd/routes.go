package main

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opst/voipinv/cmd/voipd/handlers"
	apierr "github.com/opst/voipinv/pkg/api/types/errors"
	"github.com/opst/voipinv/pkg/api/types/inventory"
	"github.com/opst/voipinv/pkg/api/types/refs"
	apivoip "github.com/opst/voipinv/pkg/api/types/voip"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/filters"
	"github.com/opst/voipinv/pkg/filtersets"
	"github.com/opst/voipinv/pkg/metrics"
)

// api returns the path of the collection, or its member when member is given.
func api(collection string, member ...string) string {
	p := refs.APIRoot + "/" + collection + "/"
	for _, m := range member {
		p += m + "/"
	}
	return p
}

// readOnly registers list and detail endpoints of a collection.
func readOnly[T any, R any](
	e *echo.Echo,
	collection string,
	finder kdb.Finder[T],
	fs *filters.FilterSet,
	paging handlers.Paging,
	observer handlers.ConstraintObserver,
	conv func(T) R,
) {
	e.GET(api(collection), handlers.ListHandler(collection, finder, fs, paging, observer, conv))
	e.Logger.Debugf("%s accepts filters: %s", api(collection), strings.Join(fs.Params(), " "))
	e.GET(api(collection, ":"+handlers.IdParam), handlers.GetHandler(finder, conv))
}

// writable registers list, detail and write endpoints of a collection.
func writable[T any, S any, R any](
	e *echo.Echo,
	collection string,
	store interface {
		kdb.Finder[T]
		kdb.Writer[T, S]
	},
	fs *filters.FilterSet,
	paging handlers.Paging,
	observer handlers.ConstraintObserver,
	bind handlers.Binder[S],
	conv func(T) R,
) {
	readOnly(e, collection, kdb.Finder[T](store), fs, paging, observer, conv)
	member := api(collection, ":"+handlers.IdParam)
	e.POST(api(collection), handlers.CreateHandler[T, S, R](store, bind, conv))
	e.PUT(member, handlers.UpdateHandler[T, S, R](store, bind, conv))
	e.DELETE(member, handlers.DeleteHandler[T, S](store))
}

// route registers all endpoints of the server.
func route(
	e *echo.Echo, db kdb.Database, nullSentinel string, paging handlers.Paging, m *metrics.Metrics,
) {
	b := filtersets.Builder{
		RegionTree:      db.Regions(),
		TenantGroupTree: db.TenantGroups(),
		NullSentinel:    nullSentinel,
	}

	readOnly(e, refs.Providers, db.Providers(), b.Providers(), paging, m, inventory.ComposeProvider)
	readOnly(e, refs.Circuits, db.Circuits(), b.Circuits(), paging, m, inventory.ComposeCircuit)
	readOnly(e, refs.Tenants, db.Tenants(), b.Tenants(), paging, m, inventory.ComposeTenant)
	readOnly(
		e, refs.TenantGroups, kdb.Finder[kdb.TenantGroup](db.TenantGroups()),
		b.TenantGroups(), paging, m, inventory.ComposeTenantGroup,
	)
	readOnly(
		e, refs.Regions, kdb.Finder[kdb.Region](db.Regions()),
		b.Regions(), paging, m, inventory.ComposeRegion,
	)
	readOnly(e, refs.Sites, db.Sites(), b.Sites(), paging, m, inventory.ComposeSite)
	readOnly(e, refs.Racks, db.Racks(), b.Racks(), paging, m, inventory.ComposeRack)
	readOnly(e, refs.VLANGroups, db.VLANGroups(), b.VLANGroups(), paging, m, inventory.ComposeVLANGroup)
	readOnly(e, refs.Tags, db.Tags(), b.Tags(), paging, m, inventory.ComposeTag)

	writable[kdb.Service, kdb.ServiceSpec, inventory.Service](
		e, refs.Services, db.Services(), b.Services(), paging, m,
		handlers.BindJSON(handlers.Infallible(inventory.ServicePayload.Spec)),
		inventory.ComposeService,
	)
	writable[kdb.Number, kdb.NumberSpec, apivoip.Number](
		e, refs.Numbers, db.Numbers(), b.Numbers(), paging, m,
		handlers.BindJSON(handlers.Infallible(apivoip.NumberPayload.Spec)),
		apivoip.ComposeNumber,
	)
	writable[kdb.VoiceCircuit, kdb.VoiceCircuitSpec, apivoip.VoiceCircuit](
		e, refs.VoiceCircuits, db.VoiceCircuits(), b.VoiceCircuits(), paging, m,
		handlers.BindJSON(apivoip.VoiceCircuitPayload.Spec),
		apivoip.ComposeVoiceCircuit,
	)

	e.GET("/metrics/", echo.WrapHandler(m.Handler()))
	e.GET(refs.APIRoot+"/status/", func(c echo.Context) error {
		v, err := db.Schema().Version(c.Request().Context())
		if err != nil {
			return apierr.ServiceUnavailable("database is not reachable or its schema is not ready", err)
		}
		return c.JSON(http.StatusOK, map[string]any{"ready": true, "schema_version": v})
	})
}
