package tableview

import "math"

// Page is one window of a row collection.
type Page struct {
	Rows []Row
	// StartIndex and EndIndex bound Rows within the full collection as
	// [StartIndex, EndIndex).
	StartIndex int
	EndIndex   int
	TotalPages int
}

// TotalPages returns max(1, ceil(n/pageSize)).
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		panic("tableview: page size must be positive")
	}
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate slices rows for the 1-based page. The page is not clamped: a page
// outside [1, TotalPages] yields an empty Rows slice. pageSize must be
// positive.
func Paginate(rows []Row, page, pageSize int) Page {
	p := Page{TotalPages: TotalPages(len(rows), pageSize)}
	switch {
	case page-1 > (math.MaxInt-pageSize)/pageSize:
		// (page-1)*pageSize would overflow; the window lies past the data.
		p.StartIndex, p.EndIndex = len(rows), len(rows)
	case page-1 < math.MinInt/pageSize:
		p.StartIndex, p.EndIndex = 0, 0
	default:
		p.StartIndex = (page - 1) * pageSize
		p.EndIndex = min(p.StartIndex+pageSize, len(rows))
	}
	if p.StartIndex < 0 || p.StartIndex >= p.EndIndex {
		p.Rows = []Row{}
		return p
	}
	p.Rows = rows[p.StartIndex:p.EndIndex:p.EndIndex]
	return p
}
