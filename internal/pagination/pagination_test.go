// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package pagination

import (
	"slices"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, size, want int
	}{
		{0, 30, 1},
		{7, 30, 1},
		{30, 30, 1},
		{31, 30, 2},
		{100, 10, 10},
		{5, 0, 5},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPaginate_SevenItemsOnePage(t *testing.T) {
	t.Parallel()

	p := Paginate(seq(7), 30, 1)
	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", p.TotalPages)
	}
	if len(p.Items) != 7 {
		t.Errorf("page 1 holds %d items, want 7", len(p.Items))
	}
}

func TestPaginate_Empty(t *testing.T) {
	t.Parallel()

	p := Paginate([]string{}, 30, 1)
	if p.TotalPages != 1 || len(p.Items) != 0 || p.Items == nil {
		t.Errorf("empty input: %+v", p)
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	t.Parallel()

	items := seq(45)
	for _, page := range []int{0, -3, 4, 99} {
		p := Paginate(items, 20, page)
		if len(p.Items) != 0 {
			t.Errorf("page %d returned %d items, want 0", page, len(p.Items))
		}
		if p.TotalPages != 3 {
			t.Errorf("page %d TotalPages = %d, want 3", page, p.TotalPages)
		}
	}
}

func TestPaginate_PartialLastPage(t *testing.T) {
	t.Parallel()

	p := Paginate(seq(45), 20, 3)
	if len(p.Items) != 5 || p.Items[0] != 40 || p.Items[4] != 44 {
		t.Errorf("page 3 = %v, want 40..44", p.Items)
	}
}

// Every item lands on exactly one page.
func TestPaginate_Partition(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 29, 30, 31, 95, 120} {
		for _, size := range []int{1, 7, 30} {
			items := seq(n)
			total := TotalPages(n, size)
			seen := make(map[int]int)
			sum := 0
			for page := 1; page <= total; page++ {
				p := Paginate(items, size, page)
				sum += len(p.Items)
				for _, it := range p.Items {
					seen[it]++
				}
			}
			if sum != n {
				t.Errorf("n=%d size=%d: pages hold %d items", n, size, sum)
			}
			for it, c := range seen {
				if c != 1 {
					t.Errorf("n=%d size=%d: item %d appears on %d pages", n, size, it, c)
				}
			}
			if p := Paginate(items, size, total+1); len(p.Items) != 0 {
				t.Errorf("n=%d size=%d: page past the end is not empty", n, size)
			}
		}
	}
}

func TestPaginate_ItemsCannotGrowIntoNextPage(t *testing.T) {
	t.Parallel()

	items := seq(10)
	p := Paginate(items, 4, 1)
	p.Items = append(p.Items, 99)
	if items[4] != 4 {
		t.Error("appending to a page overwrote the next page")
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		current, total int
		want           []int
	}{
		{"single page", 1, 1, []int{1}},
		{"few pages", 2, 4, []int{1, 2, 3, 4}},
		{"exactly five", 5, 5, []int{1, 2, 3, 4, 5}},
		{"near start", 3, 10, []int{1, 2, 3, 4, 5}},
		{"first page", 1, 10, []int{1, 2, 3, 4, 5}},
		{"middle", 6, 10, []int{4, 5, 6, 7, 8}},
		{"near end", 8, 10, []int{6, 7, 8, 9, 10}},
		{"last page", 10, 10, []int{6, 7, 8, 9, 10}},
		{"zero total", 1, 0, []int{1}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Window(tt.current, tt.total); !slices.Equal(got, tt.want) {
				t.Errorf("Window(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if Clamp(0, 3) != 1 || Clamp(9, 3) != 3 || Clamp(2, 3) != 2 || Clamp(4, 0) != 1 {
		t.Error("Clamp out of bounds")
	}
}
