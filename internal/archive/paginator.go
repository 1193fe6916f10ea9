package archive

// Paginator splits Count items into pages of PerPage items.
type Paginator struct {
	Count   int
	PerPage int
}

func NewPaginator(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = PageSize
	}
	if count < 0 {
		count = 0
	}

	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is never less than 1: an empty listing still has one empty page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}

	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Page returns page number n clamped into [1, NumPages].
func (p Paginator) Page(n int) Page {
	last := p.NumPages()
	switch {
	case n < 1:
		n = 1
	case n > last:
		n = last
	}

	return Page{
		Number:   n,
		NumPages: last,
		Count:    p.Count,
		PerPage:  p.PerPage,
	}
}

type Page struct {
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

// StartIndex is the 1-based index of the first item on the page, 0 for an empty listing.
func (p Page) StartIndex() int {
	if p.Count == 0 {
		return 0
	}

	return p.Offset() + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (p Page) EndIndex() int {
	return min(p.Number*p.PerPage, p.Count)
}

// Window returns up to size page numbers centered on the current page.
func (p Page) Window(size int) []int {
	if size < 1 {
		return nil
	}
	if size > p.NumPages {
		size = p.NumPages
	}

	start := p.Number - size/2
	start = max(start, 1)
	if start+size-1 > p.NumPages {
		start = p.NumPages - size + 1
	}

	window := make([]int, size)
	for i := range window {
		window[i] = start + i
	}

	return window
}
