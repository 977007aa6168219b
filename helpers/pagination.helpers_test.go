package helpers

import (
	"math"
	"strconv"
	"testing"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{5, 4, 2},
		{10, 4, 3},
		{10, 0, 10},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Fatalf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-3":  1,
		"2":   2,
		"17":  17,
	}
	for raw, want := range tests {
		if got := ParsePage(raw); got != want {
			t.Fatalf("ParsePage(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestSlicePage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got := SlicePage(all, 2, 4)
	want := []int{5, 6, 7, 8}
	if len(got) != len(want) {
		t.Fatalf("page 2 len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("page 2 item %d = %d, want %d", i, got[i], want[i])
		}
	}

	if got := SlicePage(all, 3, 4); len(got) != 2 {
		t.Fatalf("page 3 len = %d, want 2", len(got))
	}
	if got := SlicePage(all, 4, 4); len(got) != 0 {
		t.Fatalf("page 4 len = %d, want 0", len(got))
	}
	if got := SlicePage(all, 0, 4); got[0] != 1 {
		t.Fatalf("page 0 should default to page 1, got first item %d", got[0])
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[string](nil, 10, -1, 4)
	if page.Items == nil {
		t.Fatal("expected empty items slice, got nil")
	}
	if page.Page != 1 {
		t.Fatalf("page = %d, want 1", page.Page)
	}
	if page.PageCount != 3 {
		t.Fatalf("page count = %d, want 3", page.PageCount)
	}
}

func TestPageOffsetSaturates(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 4, 0},
		{3, 4, 8},
		{1 << 62, 4, math.MaxInt},
		{math.MaxInt, 5, math.MaxInt},
		{math.MaxInt/4 + 1, 4, math.MaxInt/4*4},
	}
	for _, tt := range tests {
		if got := PageOffset(tt.page, tt.size); got != tt.want {
			t.Fatalf("PageOffset(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestSlicePageHugePage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	for _, page := range []int{1 << 62, math.MaxInt, ParsePage(strconv.Itoa(math.MaxInt))} {
		if got := SlicePage(all, page, 4); len(got) != 0 {
			t.Fatalf("SlicePage(page %d) = %v, want empty", page, got)
		}
	}
}
