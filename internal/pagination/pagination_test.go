package pagination

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		size      int
		wantPages int
		wantPrev  *int
		wantNext  *int
	}{
		{name: "empty listing", total: 0, page: 1, size: 10, wantPages: 1},
		{name: "middle page", total: 25, page: 2, size: 10, wantPages: 3, wantPrev: intPtr(1), wantNext: intPtr(3)},
		{name: "last page", total: 25, page: 3, size: 10, wantPages: 3, wantPrev: intPtr(2)},
		{name: "first page", total: 25, page: 1, size: 10, wantPages: 3, wantNext: intPtr(2)},
		{name: "exact multiple", total: 30, page: 3, size: 10, wantPages: 3, wantPrev: intPtr(2)},
		{name: "past the end is not clamped", total: 5, page: 7, size: 10, wantPages: 1, wantPrev: intPtr(6)},
		{name: "single item", total: 1, page: 1, size: 1, wantPages: 1},
		{name: "largest count", total: math.MaxInt, page: 1, size: 10, wantPages: math.MaxInt/10 + 1, wantNext: intPtr(2)},
		{name: "largest count unit pages", total: math.MaxInt, page: math.MaxInt, size: 1, wantPages: math.MaxInt, wantPrev: intPtr(math.MaxInt - 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(tt.total, tt.page, tt.size)
			if err != nil {
				t.Fatalf("Paginate(%d, %d, %d) returned error: %v", tt.total, tt.page, tt.size, err)
			}
			if got.CurrentPage != tt.page {
				t.Errorf("CurrentPage = %d, want %d", got.CurrentPage, tt.page)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.TotalCount != tt.total {
				t.Errorf("TotalCount = %d, want %d", got.TotalCount, tt.total)
			}
			if !reflect.DeepEqual(got.PrevPage, tt.wantPrev) {
				t.Errorf("PrevPage = %v, want %v", deref(got.PrevPage), deref(tt.wantPrev))
			}
			if !reflect.DeepEqual(got.NextPage, tt.wantNext) {
				t.Errorf("NextPage = %v, want %v", deref(got.NextPage), deref(tt.wantNext))
			}
		})
	}
}

func TestPaginateInvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		total int
		page  int
		size  int
	}{
		{"negative count", -1, 1, 10},
		{"zero page", 10, 0, 10},
		{"negative page", 10, -3, 10},
		{"zero size", 10, 1, 0},
		{"negative size", 10, 1, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paginate(tt.total, tt.page, tt.size)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		page, size, n      int
		wantStart, wantEnd int
	}{
		{1, 6, 7, 0, 6},
		{2, 6, 7, 6, 7},
		{3, 6, 7, 7, 7},
		{1, 10, 0, 0, 0},
		{0, 10, 5, 0, 0},
		{math.MaxInt, 10, 100, 100, 100},
		{2, math.MaxInt, 5, 5, 5},
		{1, math.MaxInt, math.MaxInt, 0, math.MaxInt},
		{math.MaxInt / 2, 3, math.MaxInt, math.MaxInt, math.MaxInt},
	}

	for _, tt := range tests {
		start, end := Bounds(tt.page, tt.size, tt.n)
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("Bounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tt.page, tt.size, tt.n, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 2, []int{1, 2}},
		{1, 3, []int{1, 2, 3}},
		{2, 10, []int{1, 2, 3, Ellipsis, 10}},
		{3, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{8, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
		{10, 10, []int{1, Ellipsis, 9, 10}},
		{12, 10, []int{1, Ellipsis, 9, 10}},
		{1, 0, nil},
	}

	for _, tt := range tests {
		got := Window(tt.current, tt.total)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
