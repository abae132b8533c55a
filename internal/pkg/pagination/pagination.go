// Package pagination derives page counts and the page-number strip shown
// under the employee table.
package pagination

// Ellipsis marks a collapsed run of page numbers in the output of PageNumbers.
const Ellipsis = -1

// Window is how many pages are shown on each side of the current page.
const Window = 2

// TotalPages returns ceil(totalCount / pageSize). It is 0 when there are no
// records, which callers render as the empty state rather than "page 1 of 1".
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Clamp keeps page inside [1, totalPages]. With no pages it returns 1.
func Clamp(page, totalPages int) int {
	if totalPages < 1 || page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// InRange reports whether page is a valid navigation target.
func InRange(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}

// PageNumbers builds the page strip: the first and last page are always
// present, up to Window pages surround the current one, and any gap of more
// than one page collapses into a single Ellipsis.
//
//	PageNumbers(7, 10) == [1, …, 5, 6, 7, 8, 9, 10]
func PageNumbers(current, totalPages int) []int {
	if totalPages < 1 {
		return []int{}
	}

	start := max(1, current-Window)
	end := min(totalPages, current+Window)

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
