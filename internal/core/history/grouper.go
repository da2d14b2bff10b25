package history

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// DayBucket holds the history records recorded on one calendar day.
type DayBucket struct {
	Label   string                   `json:"label"`
	Day     time.Time                `json:"day"` // local midnight
	Records []model.RunHistoryRecord `json:"records"`
}

// DayBuckets is an ordered set of day buckets. Buckets keep the order in
// which their day was first seen; the label index only speeds up lookups.
type DayBuckets struct {
	buckets []DayBucket
	index   map[string]int
}

// NewDayBuckets returns an empty bucket set.
func NewDayBuckets() *DayBuckets {
	return &DayBuckets{
		buckets: make([]DayBucket, 0),
		index:   make(map[string]int),
	}
}

func (b *DayBuckets) add(day time.Time, record model.RunHistoryRecord) {
	label := DayLabel(day)
	pos, ok := b.index[label]
	if !ok {
		pos = len(b.buckets)
		b.index[label] = pos
		b.buckets = append(b.buckets, DayBucket{
			Label: label,
			Day:   startOfDay(day),
		})
	}
	b.buckets[pos].Records = append(b.buckets[pos].Records, record)
}

// Len returns the number of days.
func (b *DayBuckets) Len() int {
	return len(b.buckets)
}

// Labels returns the day labels in bucket order.
func (b *DayBuckets) Labels() []string {
	labels := make([]string, len(b.buckets))
	for i, bucket := range b.buckets {
		labels[i] = bucket.Label
	}
	return labels
}

// Get returns the records of the given day.
func (b *DayBuckets) Get(label string) ([]model.RunHistoryRecord, bool) {
	pos, ok := b.index[label]
	if !ok {
		return nil, false
	}
	return b.buckets[pos].Records, true
}

// Buckets returns a copy of the buckets in order.
func (b *DayBuckets) Buckets() []DayBucket {
	out := make([]DayBucket, len(b.buckets))
	copy(out, b.buckets)
	return out
}

// Total returns the number of records across all days.
func (b *DayBuckets) Total() int {
	total := 0
	for _, bucket := range b.buckets {
		total += len(bucket.Records)
	}
	return total
}

// Records flattens the buckets back into a single slice, in bucket order.
func (b *DayBuckets) Records() []model.RunHistoryRecord {
	out := make([]model.RunHistoryRecord, 0, b.Total())
	for _, bucket := range b.buckets {
		out = append(out, bucket.Records...)
	}
	return out
}

// MarshalJSON encodes the buckets as an ordered array.
func (b *DayBuckets) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(b.buckets)
}

// Grouper partitions run history records into calendar days.
type Grouper struct {
	location *time.Location
}

// NewGrouper creates a Grouper labelling days in the given timezone.
// Unknown timezones fall back to Local.
func NewGrouper(timezone string) *Grouper {
	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			util.LogWarnf("Unknown timezone %q, grouping history in local time", timezone)
		} else {
			loc = l
		}
	}
	return &Grouper{location: loc}
}

// NewGrouperInLocation creates a Grouper for an already resolved location.
func NewGrouperInLocation(loc *time.Location) *Grouper {
	if loc == nil {
		loc = time.Local
	}
	return &Grouper{location: loc}
}

// Location returns the timezone days are computed in.
func (g *Grouper) Location() *time.Location {
	return g.location
}

// Group buckets records by the day of their timestamp. Records keep their
// relative input order within a day. No day ordering is applied. A record
// with a malformed timestamp fails the whole call.
func (g *Grouper) Group(records []model.RunHistoryRecord) (*DayBuckets, error) {
	buckets := NewDayBuckets()

	for i, record := range records {
		t, err := ParseRunTime(record.Time, g.location)
		if err != nil {
			return nil, fmt.Errorf("group record %d of run %q: %w", i, record.RunName, err)
		}
		buckets.add(t, record)
	}

	util.LogDebugf("Grouped %d history records into %d days", len(records), buckets.Len())
	return buckets, nil
}
