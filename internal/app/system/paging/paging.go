// internal/app/system/paging/paging.go

// Package paging implements offset pagination for list endpoints: a
// 1-indexed page number and a page size, with totals computed from a count
// query.
package paging

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// Defaults applied when a request omits pageSize/pageNumber or sends
// something non-numeric.
const (
	DefaultPageSize   = 10
	DefaultPageNumber = 1
)

// Request is a validated pagination request.
type Request struct {
	PageSize   int
	PageNumber int
}

// Skip returns the offset for the requested page: (pageNumber-1)*pageSize.
func (p Request) Skip() int {
	return (p.PageNumber - 1) * p.PageSize
}

// Normalize replaces non-positive values with the defaults.
func (p Request) Normalize() Request {
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}
	return p
}

// Parse extracts pageSize and pageNumber from the request query string,
// falling back to defaults for absent or non-numeric values.
func Parse(r *http.Request) Request {
	return Request{
		PageSize:   intParam(r, "pageSize"),
		PageNumber: intParam(r, "pageNumber"),
	}.Normalize()
}

func intParam(r *http.Request, name string) int {
	s := query.Get(r, name)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Meta describes one page of results for the response body.
type Meta struct {
	TotalCount int64 `json:"totalCount"`
	PageSize   int   `json:"pageSize"`
	PageNumber int   `json:"pageNumber"`
	TotalPages int   `json:"totalPages"`
	Skip       int   `json:"skip"`
	Limit      int   `json:"limit"`
}

// NewMeta computes page totals: totalPages = ceil(totalCount/pageSize).
func NewMeta(req Request, totalCount int64) Meta {
	req = req.Normalize()
	return Meta{
		TotalCount: totalCount,
		PageSize:   req.PageSize,
		PageNumber: req.PageNumber,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(req.PageSize))),
		Skip:       req.Skip(),
		Limit:      req.PageSize,
	}
}
