package views

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/pagination"
)

// PageURL returns base with its page query parameter set to page.
func PageURL(base string, page int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Pager renders previous/next links around a window of page numbers.
// Nothing is rendered for a single page.
func Pager(base string, p models.Pagination) templ.Component {
	return component(func(pr *printer) {
		if p.TotalPages <= 1 {
			return
		}
		link := "rounded-md border px-3 py-1 text-sm hover:bg-gray-100"
		pr.raw(`<nav class="mt-4 flex items-center justify-center gap-1" aria-label="Pagination">`)
		if p.HasPrev() {
			pr.raw(`<a class="%s" href="`, link)
			pr.attr(PageURL(base, *p.PrevPage))
			pr.raw(`">Previous</a>`)
		}
		for _, n := range pagination.Window(p.CurrentPage, p.TotalPages) {
			switch {
			case n == pagination.Ellipsis:
				pr.raw(`<span class="px-2 text-gray-400">…</span>`)
			case n == p.CurrentPage:
				pr.raw(`<span class="%s" aria-current="page">%d</span>`, ButtonClass("px-3 py-1"), n)
			default:
				pr.raw(`<a class="%s" href="`, link)
				pr.attr(PageURL(base, n))
				pr.raw(`">%d</a>`, n)
			}
		}
		if p.HasNext() {
			pr.raw(`<a class="%s" href="`, link)
			pr.attr(PageURL(base, *p.NextPage))
			pr.raw(`">Next</a>`)
		}
		pr.raw(`</nav>`)
	})
}
