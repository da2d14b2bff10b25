// Package interaction handles keyboard control and display ordering of the
// history screen.
package interaction

import (
	"sort"

	"github.com/penwyp/go-run-history/internal/core/history"
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortDescending SortOrder = iota // most recent day first
	SortAscending
)

// ParseSortOrder accepts "desc" and "asc"; anything else is descending.
func ParseSortOrder(s string) SortOrder {
	if s == "asc" {
		return SortAscending
	}
	return SortDescending
}

func (o SortOrder) String() string {
	if o == SortAscending {
		return "asc"
	}
	return "desc"
}

// DaySorter orders day buckets for display. Records inside a day keep the
// order the history service returned them in.
type DaySorter struct {
	order SortOrder
}

// NewDaySorter creates a sorter, most recent day first.
func NewDaySorter() *DaySorter {
	return &DaySorter{order: SortDescending}
}

// SetOrder changes the sort order
func (s *DaySorter) SetOrder(order SortOrder) {
	s.order = order
}

// Order returns the current sort order
func (s *DaySorter) Order() SortOrder {
	return s.order
}

// Toggle flips the sort order
func (s *DaySorter) Toggle() {
	if s.order == SortDescending {
		s.order = SortAscending
	} else {
		s.order = SortDescending
	}
}

// Sort returns the buckets of days in display order. days is not modified.
func (s *DaySorter) Sort(days *history.DayBuckets) []history.DayBucket {
	if days == nil {
		return nil
	}
	buckets := days.Buckets()
	sort.SliceStable(buckets, func(i, j int) bool {
		if s.order == SortAscending {
			return buckets[i].Day.Before(buckets[j].Day)
		}
		return buckets[i].Day.After(buckets[j].Day)
	})
	return buckets
}
