package filter

import (
	"time"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/core/model"
)

// FilterDateLayout is the textual form the results filter matches dates in.
const FilterDateLayout = "2006-01-02 15:04:05"

// ViewKind names the predicate set variant.
type ViewKind string

const (
	ViewIncremental ViewKind = "incremental"
	ViewSnapshot    ViewKind = "snapshot"
)

// PredicateSet is the set of filter predicates implied by one history record.
// It is either an IncrementalView or a SnapshotView.
type PredicateSet interface {
	Kind() ViewKind
	// apply sets the predicates on a freshly cleared subsystem.
	apply(s Subsystem)
}

// IncrementalView shows what was still outstanding right after an
// ordinary run.
type IncrementalView struct {
	RunName       string                  `json:"runName"`
	Statuses      []model.DetectionStatus `json:"detectionStatuses"`
	DetectionDate string                  `json:"detectionDate"`
}

func (v IncrementalView) Kind() ViewKind { return ViewIncremental }

func (v IncrementalView) apply(s Subsystem) {
	s.SelectRunName(v.RunName)
	s.SelectDetectionStatuses(v.Statuses)
	s.FixDetectionDate(v.DetectionDate)
}

// SnapshotView shows the results of a tagged snapshot.
type SnapshotView struct {
	Tag string `json:"tag"`
}

func (v SnapshotView) Kind() ViewKind { return ViewSnapshot }

func (v SnapshotView) apply(s Subsystem) {
	s.SelectTag(v.Tag)
}

// FormatFilterDate renders t for the detection date predicate. Any
// sub-second fraction rounds up to the next whole second so that an
// inclusive range ending at this instant still covers the run itself.
func FormatFilterDate(t time.Time) string {
	if t.Nanosecond() != 0 {
		t = t.Truncate(time.Second).Add(time.Second)
	}
	return t.Format(FilterDateLayout)
}

// Project computes the predicates that show exactly the results implied by
// record. Timestamps without an offset are read in loc.
func Project(record model.RunHistoryRecord, loc *time.Location) (PredicateSet, error) {
	if record.IsSnapshot() {
		return SnapshotView{Tag: record.CompositeTag()}, nil
	}

	t, err := history.ParseRunTime(record.Time, loc)
	if err != nil {
		return nil, err
	}

	return IncrementalView{
		RunName:       record.RunName,
		Statuses:      model.OutstandingStatuses(),
		DetectionDate: FormatFilterDate(t),
	}, nil
}
