package pagination

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// Window returns the page numbers to render in a pager for the current page:
// the first page, the pages adjacent to current, and the last page, with
// Ellipsis standing in for every skipped run of pages.
//
//	Window(1, 1)  = [1]
//	Window(5, 10) = [1 0 4 5 6 0 10]
//	Window(2, 10) = [1 2 3 0 10]
func Window(current, totalPages int) []int {
	if totalPages < 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := max(1, current-1)
	end := min(totalPages, current+1)

	pages := make([]int, 0, end-start+5)
	if start > 1 {
		pages = append(pages, 1)
		if start > 2 {
			pages = append(pages, Ellipsis)
		}
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < totalPages {
		if end < totalPages-1 {
			pages = append(pages, Ellipsis)
		}
		pages = append(pages, totalPages)
	}
	return pages
}
