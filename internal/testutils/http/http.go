// Package http builds echo contexts for handler tests.
package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
)

type RequestOption func(req *http.Request) *http.Request

func WithContext(ctx context.Context) RequestOption {
	return func(req *http.Request) *http.Request {
		return req.WithContext(ctx)
	}
}

func WithHeader(key string, value string, values ...string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Header.Add(key, value)
		for _, v := range values {
			req.Header.Add(key, v)
		}
		return req
	}
}

// = WithHeader("Content-Type", ctyp)
func ContentType(ctyp string) RequestOption {
	return WithHeader("Content-Type", ctyp)
}

// Param sets a path parameter of echo context.
type Param struct {
	Name  string
	Value string
}

func newContext(
	e *echo.Echo, method string, target string, body io.Reader, params []Param, reqopts []RequestOption,
) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	for _, opt := range reqopts {
		req = opt(req)
	}
	resp := httptest.NewRecorder()

	ctx := e.NewContext(req, resp)
	if len(params) != 0 {
		names := make([]string, len(params))
		values := make([]string, len(params))
		for i, p := range params {
			names[i] = p.Name
			values[i] = p.Value
		}
		ctx.SetParamNames(names...)
		ctx.SetParamValues(values...)
	}
	return ctx, resp
}

func Get(e *echo.Echo, target string, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodGet, target, nil, nil, reqopts)
}

// GetWithParams is Get for routes with path parameters, like "/api/numbers/:id/".
func GetWithParams(e *echo.Echo, target string, params []Param, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodGet, target, nil, params, reqopts)
}

func Post(e *echo.Echo, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodPost, target, data, nil, reqopts)
}

// PostJSON posts body encoded in JSON.
func PostJSON(e *echo.Echo, target string, body any, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(
		e, http.MethodPost, target, jsonReader(body), nil,
		append([]RequestOption{ContentType(echo.MIMEApplicationJSON)}, reqopts...),
	)
}

// PutJSON puts body encoded in JSON.
func PutJSON(e *echo.Echo, target string, params []Param, body any, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(
		e, http.MethodPut, target, jsonReader(body), params,
		append([]RequestOption{ContentType(echo.MIMEApplicationJSON)}, reqopts...),
	)
}

func Delete(e *echo.Echo, target string, params []Param, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, http.MethodDelete, target, nil, params, reqopts)
}

func jsonReader(body any) io.Reader {
	if s, ok := body.(string); ok {
		return strings.NewReader(s)
	}
	b, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return strings.NewReader(string(b))
}
