package tableview

// maxFullControls is the largest page count listed without ellipses.
const maxFullControls = 7

// PageControl is one entry of the page-number control set: either a page
// number or an ellipsis marker standing for a collapsed run of pages.
type PageControl struct {
	Page     int
	Ellipsis bool
}

// PageControls returns the bounded control set for totalPages with current
// selected. Every page listed lies in [1, totalPages].
func PageControls(totalPages, current int) []PageControl {
	if totalPages < 1 {
		totalPages = 1
	}
	if totalPages <= maxFullControls {
		out := make([]PageControl, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			out = append(out, PageControl{Page: p})
		}
		return out
	}

	candidates := []int{1, current - 1, current, current + 1, totalPages}
	var out []PageControl
	last := 0
	for _, p := range candidates {
		if p <= last || p < 1 || p > totalPages {
			continue
		}
		if last != 0 && p-last > 1 {
			out = append(out, PageControl{Ellipsis: true})
		}
		out = append(out, PageControl{Page: p})
		last = p
	}
	return out
}
