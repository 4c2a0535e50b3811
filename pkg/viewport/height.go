package viewport

import (
	"fmt"
	"sort"
)

// RowHeightBucket maps page sizes up to MaxPageSize to a row height.
// A MaxPageSize of 0 matches every page size.
type RowHeightBucket struct {
	MaxPageSize int     `json:"maxPageSize"`
	RowHeight   float64 `json:"rowHeight"`
}

// RowHeightTable estimates the rendered row height for a page size.
// Buckets are matched in ascending MaxPageSize order, catch-all last.
type RowHeightTable []RowHeightBucket

// DefaultRowHeights covers small pages rendered as plain rows and larger
// pages, which render denser.
var DefaultRowHeights = RowHeightTable{
	{MaxPageSize: 10, RowHeight: 40},
	{MaxPageSize: 0, RowHeight: 33},
}

// Validate checks that the table can answer every page size.
func (t RowHeightTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("row height table is empty")
	}
	catchAll := false
	for _, b := range t {
		if b.RowHeight <= 0 {
			return fmt.Errorf("row height must be positive (got %v)", b.RowHeight)
		}
		if b.MaxPageSize < 0 {
			return fmt.Errorf("max page size must not be negative (got %d)", b.MaxPageSize)
		}
		if b.MaxPageSize == 0 {
			catchAll = true
		}
	}
	if !catchAll {
		return fmt.Errorf("row height table needs a catch-all bucket (max page size 0)")
	}
	return nil
}

// RowHeight returns the row height for pageSize.
func (t RowHeightTable) RowHeight(pageSize int) float64 {
	buckets := make(RowHeightTable, len(t))
	copy(buckets, t)
	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i].MaxPageSize, buckets[j].MaxPageSize
		if a == 0 || b == 0 {
			return b == 0 && a != 0
		}
		return a < b
	})

	for _, b := range buckets {
		if b.MaxPageSize == 0 || pageSize <= b.MaxPageSize {
			return b.RowHeight
		}
	}
	return 0
}

// Height returns the viewport height that shows pageSize rows before scrolling.
func (t RowHeightTable) Height(pageSize int) float64 {
	if pageSize <= 0 {
		return 0
	}
	return float64(pageSize) * t.RowHeight(pageSize)
}
