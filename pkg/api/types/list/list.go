// Package list is the envelope of paginated collection responses.
package list

import (
	"net/url"
	"strconv"

	kdb "github.com/opst/voipinv/pkg/db"
	"github.com/opst/voipinv/pkg/utils"
)

const (
	ParamLimit  = "limit"
	ParamOffset = "offset"
)

type List[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Compose builds a page of collection.
//
// # Args
//
// - self: URL of the request. Links to next/previous pages are built on it,
// keeping query parameters other than limit and offset.
//
// - found: records found in the page.
//
// - page: the page requested.
//
// - conv: converter of records.
func Compose[T any, R any](self *url.URL, found kdb.Found[T], page kdb.Page, conv func(T) R) List[R] {
	l := List[R]{Count: found.Count, Results: utils.Map(found.Items, conv)}

	if page.Limit <= 0 {
		return l
	}
	if next := page.Offset + page.Limit; int64(next) < found.Count {
		l.Next = link(self, page.Limit, next)
	}
	if 0 < page.Offset {
		prev := page.Offset - page.Limit
		if prev < 0 {
			prev = 0
		}
		l.Previous = link(self, page.Limit, prev)
	}
	return l
}

func link(self *url.URL, limit int, offset int) *string {
	u := *self
	q := u.Query()
	q.Set(ParamLimit, strconv.Itoa(limit))
	if offset == 0 {
		q.Del(ParamOffset)
	} else {
		q.Set(ParamOffset, strconv.Itoa(offset))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
