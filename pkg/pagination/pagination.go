// Package pagination turns raw page/limit query values into a bounded
// offset/limit window and builds the pagination block of list responses.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Options tunes defaults. Zero values fall back to package defaults; a
// negative MaxLimit disables the upper bound.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// Window is a resolved page request.
type Window struct {
	Page  int
	Limit int
}

// Meta is the pagination block returned alongside list data.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Parse resolves page and limit from raw query values. Repeated keys use the
// first value. Missing, non-numeric or non-positive values coerce to defaults.
func Parse(page, limit []string, opts Options) Window {
	defLimit := opts.DefaultLimit
	if defLimit <= 0 {
		defLimit = DefaultLimit
	}
	maxLimit := opts.MaxLimit
	if maxLimit == 0 {
		maxLimit = MaxLimit
	}

	w := Window{
		Page:  positiveOr(first(page), DefaultPage),
		Limit: positiveOr(first(limit), defLimit),
	}
	if maxLimit > 0 && w.Limit > maxLimit {
		w.Limit = maxLimit
	}
	// keep (Page-1)*Limit representable
	if w.Page > math.MaxInt/w.Limit {
		w.Page = math.MaxInt / w.Limit
	}
	return w
}

// Offset returns the number of rows to skip.
func (w Window) Offset() int {
	return (w.Page - 1) * w.Limit
}

// Meta builds the response block for the given total row count.
func (w Window) Meta(total int) Meta {
	return Meta{Page: w.Page, Limit: w.Limit, Total: total, TotalPages: TotalPages(total, w.Limit)}
}

// TotalPages returns ceil(total/limit), or 0 when there are no rows.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
