package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/voipinv/pkg/api/types/errors"
	kdb "github.com/opst/voipinv/pkg/db"
)

// Binder reads a spec from request.
type Binder[S any] func(c echo.Context) (S, error)

// BindJSON creates a Binder which decodes a JSON payload P and converts it into spec S.
//
// Errors from spec are responded as same as errors from stores.
func BindJSON[P any, S any](spec func(P) (S, error)) Binder[S] {
	return func(c echo.Context) (S, error) {
		var zero S
		req := c.Request()
		ctyp := strings.ToLower(req.Header.Get(echo.HeaderContentType))
		if !strings.HasPrefix(ctyp, echo.MIMEApplicationJSON) {
			return zero, apierr.BadRequest(
				"unexpected content type. it should be application/json", nil,
			)
		}

		payload := new(P)
		if err := json.NewDecoder(req.Body).Decode(payload); err != nil {
			return zero, apierr.BadRequest("can not understand the requested json", err)
		}

		s, err := spec(*payload)
		if err != nil {
			return zero, apierr.FromDB(err)
		}
		return s, nil
	}
}

// Infallible adapts a spec converter which never fails for BindJSON.
func Infallible[P any, S any](spec func(P) S) func(P) (S, error) {
	return func(p P) (S, error) { return spec(p), nil }
}

// CreateHandler creates a record and responds it with 201 Created.
func CreateHandler[T any, S any, R any](
	w kdb.Writer[T, S], bind Binder[S], conv func(T) R,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		spec, err := bind(c)
		if err != nil {
			return err
		}

		created, err := w.Create(c.Request().Context(), spec)
		if err != nil {
			return apierr.FromDB(err)
		}
		return c.JSON(http.StatusCreated, conv(created))
	}
}

// UpdateHandler replaces a record with the id in path, and responds the updated one.
func UpdateHandler[T any, S any, R any](
	w kdb.Writer[T, S], bind Binder[S], conv func(T) R,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c)
		if err != nil {
			return err
		}
		spec, err := bind(c)
		if err != nil {
			return err
		}

		updated, err := w.Update(c.Request().Context(), id, spec)
		if err != nil {
			return apierr.FromDB(err)
		}
		return c.JSON(http.StatusOK, conv(updated))
	}
}

// DeleteHandler removes a record with the id in path, and responds 204 No Content.
func DeleteHandler[T any, S any](w kdb.Writer[T, S]) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c)
		if err != nil {
			return err
		}
		if err := w.Delete(c.Request().Context(), id); err != nil {
			return apierr.FromDB(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
