package filter

import (
	"sort"
	"strings"

	"github.com/s0up4200/ombibot/ombi"
)

// SortByRequestedDate orders records newest-first by requested date. A record
// without its own requested date falls back to its child request's; records
// with neither compare equal. The sort is stable, so tied records keep their
// original relative order, which also makes sorting an already-sorted list a
// no-op.
func SortByRequestedDate(records []ombi.MediaRequest) []ombi.MediaRequest {
	sorted := make([]ombi.MediaRequest, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		a := requestedAt(&sorted[i])
		b := requestedAt(&sorted[j])
		if a == nil || b == nil {
			return false
		}
		return a.After(b.Time)
	})

	return sorted
}

func requestedAt(r *ombi.MediaRequest) *ombi.Time {
	if r.RequestedDate != nil && !r.RequestedDate.IsZero() {
		return r.RequestedDate
	}
	if child := r.Child(); child != nil && child.RequestedDate != nil && !child.RequestedDate.IsZero() {
		return child.RequestedDate
	}
	return nil
}

// FilterByTitle retains records whose title contains the query as a
// case-insensitive substring. The query is trimmed first; an empty query
// keeps everything. Applied strictly after status filtering and sorting.
func FilterByTitle(records []ombi.MediaRequest, query string) []ombi.MediaRequest {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}

	out := make([]ombi.MediaRequest, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), query) {
			out = append(out, r)
		}
	}
	return out
}
