// Package pagination computes page metadata for paginated listings.
package pagination

import (
	"errors"
	"fmt"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// ErrInvalidArgument is returned when a count, page or page size is out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// Paginate computes the metadata of page requestedPage for a listing of
// totalCount items split into pages of pageSize.
//
// The current page is reported exactly as requested, even past the last page.
// There is always at least one page, so an empty listing has a single empty page.
func Paginate(totalCount, requestedPage, pageSize int) (models.Pagination, error) {
	if totalCount < 0 {
		return models.Pagination{}, fmt.Errorf("%w: total count must not be negative, got %d", ErrInvalidArgument, totalCount)
	}
	if pageSize <= 0 {
		return models.Pagination{}, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, pageSize)
	}
	if requestedPage <= 0 {
		return models.Pagination{}, fmt.Errorf("%w: page must be positive, got %d", ErrInvalidArgument, requestedPage)
	}

	totalPages := totalCount / pageSize
	if totalCount%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	p := models.Pagination{
		CurrentPage: requestedPage,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
	}
	if requestedPage > 1 {
		prev := requestedPage - 1
		p.PrevPage = &prev
	}
	if requestedPage < totalPages {
		next := requestedPage + 1
		p.NextPage = &next
	}
	return p, nil
}

// Empty returns the metadata of a listing with no items.
func Empty() models.Pagination {
	return models.Pagination{CurrentPage: 1, TotalPages: 1}
}

// Bounds returns the half-open slice range [start, end) holding page items
// of a listing of n items. Pages past the end yield an empty range at n.
func Bounds(page, pageSize, n int) (start, end int) {
	if page < 1 || pageSize < 1 || n <= 0 {
		return 0, 0
	}
	if page-1 > n/pageSize {
		return n, n
	}
	start = (page - 1) * pageSize
	if pageSize > n-start {
		return start, n
	}
	end = start + pageSize
	return start, end
}
