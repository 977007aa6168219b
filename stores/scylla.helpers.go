package stores

import (
	"SOCIAL_server/schemas"
	"context"
	"sort"
	"time"
)

// compensationTimeout bounds writes undoing half of a two table change
const compensationTimeout = 5 * time.Second

// compensationContext is detached from the request, a compensating write must
// still run when the request context already expired
func compensationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), compensationTimeout)
}

// rowWindow emulates OFFSET over a CQL iterator, CQL only knows LIMIT
type rowWindow struct {
	offset int
	seen   int
}

// keep counts one scanned row and reports whether it falls past the offset
func (w *rowWindow) keep() bool {
	w.seen++
	return w.seen > w.offset
}

// windowLimit is the LIMIT fetching offset+limit rows, saturating instead of overflowing
func windowLimit(offset int, limit int) int {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	if offset > maxCQLLimit-limit {
		return maxCQLLimit
	}
	return offset + limit
}

// maxCQLLimit is the largest LIMIT CQL accepts (a signed 32 bit int)
const maxCQLLimit = 1<<31 - 1

// chunks splits items into consecutive slices of at most size elements
func chunks[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// sortNewestFirst orders edges by creation time, latest first, keeping the scan order on ties
func sortNewestFirst(edges []schemas.FollowEdgeSchema) {
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Created.After(edges[j].Created)
	})
}
