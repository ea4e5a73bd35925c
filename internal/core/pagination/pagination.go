package pagination

import (
	"math"
	"strconv"
	"strings"
)

// Defaults used when callers do not configure their own bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Params is a normalized page request. Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

// Skip returns the number of rows preceding the requested page. It saturates
// at math.MaxInt instead of overflowing.
func (p Params) Skip() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of rows in the requested page
func (p Params) Limit() int {
	return max(p.PageSize, 0)
}

// Normalize parses raw page/pageSize values (typically query string values).
// Missing or non-numeric input falls back to page 1 and defaultSize; numeric
// input is clamped into range, so an explicit "0" page size becomes 1. It
// never fails.
func Normalize(rawPage, rawPageSize string, defaultSize, maxSize int) Params {
	page, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil {
		page = 1
	}

	size, err := strconv.Atoi(strings.TrimSpace(rawPageSize))
	if err != nil {
		size = defaultSize
	} else if size == 0 {
		size = 1
	}

	return Clamp(page, size, defaultSize, maxSize)
}

// Clamp bounds already-numeric page values. A zero pageSize means "not
// provided" and becomes defaultSize. Page is capped so that the row offset
// (page-1)*pageSize fits in an int.
func Clamp(page, pageSize, defaultSize, maxSize int) Params {
	if maxSize < 1 {
		maxSize = MaxPageSize
	}
	if defaultSize < 1 || defaultSize > maxSize {
		defaultSize = min(DefaultPageSize, maxSize)
	}

	if page < 1 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}

	return Params{Page: page, PageSize: pageSize}
}

// Info is the pagination block of a page envelope
type Info struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Result is a page of T plus its pagination metadata
type Result[T any] struct {
	Data       []T  `json:"data"`
	Pagination Info `json:"pagination"`
}

// NewResult builds the envelope for one page. totalPages is at least 1 so an
// empty collection still reports a single (empty) page.
func NewResult[T any](data []T, params Params, total int) *Result[T] {
	if data == nil {
		data = []T{}
	}
	if total < 0 {
		total = 0
	}

	totalPages := 1
	if params.PageSize > 0 && total > 0 {
		totalPages = (total + params.PageSize - 1) / params.PageSize
	}

	return &Result[T]{
		Data: data,
		Pagination: Info{
			Page:       params.Page,
			PageSize:   params.PageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    params.Page < totalPages,
			HasPrev:    params.Page > 1,
		},
	}
}

// Empty returns an envelope with no data and total=0
func Empty[T any](params Params) *Result[T] {
	return NewResult[T](nil, params, 0)
}
