// Package handlers is echo handlers of the REST API.
package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/voipinv/pkg/api/types/errors"
	"github.com/opst/voipinv/pkg/api/types/list"
	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/filters"
	"github.com/opst/voipinv/pkg/filters/query"
)

// IdParam is the name of path parameter for record ids, like "/api/numbers/:id/".
const IdParam = "id"

// ConstraintObserver is told constraints built from requests.
type ConstraintObserver interface {
	ObserveConstraint(collection string, c query.Constraint)
}

// Paging is the range of page size.
type Paging struct {
	// page size when "limit" is not given.
	Default int

	// upper bound of page size. "limit=0" also means this.
	Max int
}

// Page reads "limit" and "offset" query parameters.
//
// It returns an error when they are not non-negative integers.
func (p Paging) Page(params url.Values) (kdb.Page, error) {
	page := kdb.Page{Limit: p.Default}

	if l := params.Get(list.ParamLimit); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			return kdb.Page{}, apierr.BadRequest("limit should be a non-negative integer", err)
		}
		page.Limit = limit
	}
	if page.Limit == 0 || p.Max < page.Limit {
		page.Limit = p.Max
	}

	if o := params.Get(list.ParamOffset); o != "" {
		offset, err := strconv.Atoi(o)
		if err != nil || offset < 0 {
			return kdb.Page{}, apierr.BadRequest("offset should be a non-negative integer", err)
		}
		page.Offset = offset
	}
	return page, nil
}

// ListHandler lists records in the collection, filtered by query parameters.
//
// # Args
//
// - collection: name of the collection, for metrics.
//
// - finder: store of records.
//
// - fs: filters of the collection.
//
// - paging: range of page size.
//
// - observer: it is told constraints built.
//
// - conv: converter from records to JSON representations.
func ListHandler[T any, R any](
	collection string,
	finder kdb.Finder[T],
	fs *filters.FilterSet,
	paging Paging,
	observer ConstraintObserver,
	conv func(T) R,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		params := req.URL.Query()

		page, err := paging.Page(params)
		if err != nil {
			return err
		}

		constraint, err := fs.Apply(ctx, params)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		observer.ObserveConstraint(collection, constraint)

		found, err := finder.Find(ctx, constraint, page)
		if err != nil {
			return apierr.FromDB(err)
		}

		return c.JSON(http.StatusOK, list.Compose(self(c), found, page, conv))
	}
}

// GetHandler responds a record with the id in path.
func GetHandler[T any, R any](finder kdb.Finder[T], conv func(T) R) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c)
		if err != nil {
			return err
		}

		record, err := finder.Get(c.Request().Context(), id)
		if err != nil {
			return apierr.FromDB(err)
		}
		return c.JSON(http.StatusOK, conv(record))
	}
}

// pathId reads the record id in path.
//
// Ids which are not integers refer no records.
func pathId(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param(IdParam), 10, 64)
	if err != nil {
		return 0, apierr.NotFound()
	}
	return id, nil
}

// self is the absolute URL of the request.
func self(c echo.Context) *url.URL {
	req := c.Request()
	u := *req.URL
	u.Scheme = c.Scheme()
	u.Host = req.Host
	return &u
}
