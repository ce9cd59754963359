package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/util"
)

// Query is the client-side view state of an admin table: substring search
// over the configured fields, a single sortable column and fixed-size pages.
type Query struct {
	Search   string
	SortKey  string
	SortDesc bool
	Page     int
}

type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type Page struct {
	Items []backend.Record `json:"data"`
	Meta  Meta             `json:"meta"`
}

// ApplyQuery filters, sorts and paginates rows in memory.
func ApplyQuery(d Descriptor, rows []backend.Record, q Query) Page {
	filtered := filterRows(d.SearchFields, rows, q.Search)
	if q.SortKey != "" {
		sortRows(filtered, q.SortKey, q.SortDesc)
	}

	total := int64(len(filtered))
	page := q.Page
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, util.DefaultPageSize)

	var items []backend.Record
	if offset < len(filtered) {
		end := offset + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		items = filtered[offset:end]
	}
	if items == nil {
		items = []backend.Record{}
	}

	return Page{
		Items: items,
		Meta: Meta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}

func filterRows(fields []string, rows []backend.Record, search string) []backend.Record {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return append([]backend.Record(nil), rows...)
	}
	var out []backend.Record
	for _, rec := range rows {
		for _, field := range fields {
			v, ok := rec[field]
			if !ok || v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), search) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// sortRows orders numerically when both cells are numbers, lexically
// otherwise. Missing cells sort first.
func sortRows(rows []backend.Record, key string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		less := cellLess(rows[i][key], rows[j][key])
		if desc {
			return cellLess(rows[j][key], rows[i][key])
		}
		return less
	})
}

func cellLess(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if aok && bok {
		return af < bf
	}
	return strings.ToLower(fmt.Sprint(a)) < strings.ToLower(fmt.Sprint(b))
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
