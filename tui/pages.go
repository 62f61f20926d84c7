// ABOUTME: Paging math for the trial table
// ABOUTME: Pure functions so the layout is testable without a terminal

package tui

// pageCount returns the number of pages needed for total trials. An
// empty session still has one (empty) page.
func pageCount(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}

	if total <= 0 {
		return 1
	}

	return (total + pageSize - 1) / pageSize
}

// pageOf returns the page holding the trial at index.
func pageOf(index, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}

	if index < 0 {
		return 0
	}

	return index / pageSize
}

// pageBounds returns the half-open trial range [start, end) shown on
// page.
func pageBounds(page, pageSize, total int) (start, end int) {
	if pageSize < 1 {
		pageSize = 1
	}

	start = page * pageSize
	if start > total {
		start = total
	}

	end = start + pageSize
	if end > total {
		end = total
	}

	return start, end
}

// clampIndex bounds a trial index to [0, total).
func clampIndex(index, total int) int {
	if total <= 0 {
		return 0
	}

	if index < 0 {
		return 0
	}

	if index >= total {
		return total - 1
	}

	return index
}
