// Package pagination computes page counts and the visible page-button window.
package pagination

// WindowSize is the number of page buttons shown around the current page.
const WindowSize = 5

// Page addresses one page of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the zero-based index of the first row on the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages returns ceil(total/perPage), or 0 when either is not positive.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Pager is the rendered state of a pagination bar.
type Pager struct {
	Current    int
	TotalPages int
	Total      int
	Start      int
	End        int
}

// New builds the pager for total rows at perPage rows per page with current
// selected. A current page outside [1, TotalPages] is clamped for windowing.
func New(total, perPage, current int) Pager {
	pages := TotalPages(total, perPage)
	p := Pager{Current: current, TotalPages: pages, Total: total}
	if pages == 0 {
		return p
	}

	cur := current
	if cur < 1 {
		cur = 1
	}
	if cur > pages {
		cur = pages
	}

	start := max(1, cur-2)
	end := min(pages, start+WindowSize-1)
	if end-start < WindowSize-1 {
		start = max(1, end-(WindowSize-1))
	}
	p.Start, p.End = start, end
	return p
}

// Empty reports whether there is nothing to paginate.
func (p Pager) Empty() bool { return p.TotalPages == 0 }

// Pages lists the page numbers inside the window.
func (p Pager) Pages() []int {
	if p.Empty() {
		return nil
	}
	pages := make([]int, 0, p.End-p.Start+1)
	for n := p.Start; n <= p.End; n++ {
		pages = append(pages, n)
	}
	return pages
}

// ShowFirst reports whether a jump-to-first button precedes the window.
func (p Pager) ShowFirst() bool { return !p.Empty() && p.Start > 1 }

// LeadingEllipsis reports whether pages are skipped between page 1 and the window.
func (p Pager) LeadingEllipsis() bool { return !p.Empty() && p.Start > 2 }

// ShowLast reports whether a jump-to-last button follows the window.
func (p Pager) ShowLast() bool { return !p.Empty() && p.End < p.TotalPages }

// TrailingEllipsis reports whether pages are skipped between the window and the last page.
func (p Pager) TrailingEllipsis() bool { return !p.Empty() && p.End < p.TotalPages-1 }

// HasPrev reports whether the previous-page control is enabled.
func (p Pager) HasPrev() bool { return !p.Empty() && p.Current > 1 }

// HasNext reports whether the next-page control is enabled.
func (p Pager) HasNext() bool { return !p.Empty() && p.Current < p.TotalPages }
