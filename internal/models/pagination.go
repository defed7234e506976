package models

// Pagination describes the position of a page within a listing.
// PrevPage and NextPage are nil at the respective boundary.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.PrevPage != nil
}

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool {
	return p.NextPage != nil
}
