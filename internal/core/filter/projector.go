package filter

import (
	"fmt"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// Subsystem is the results filter the projector drives.
type Subsystem interface {
	// SelectRunName selects a single run name.
	SelectRunName(name string)
	// SelectDetectionStatuses selects the given detection statuses.
	SelectDetectionStatuses(statuses []model.DetectionStatus)
	// FixDetectionDate narrows the detection date range to one instant.
	FixDetectionDate(date string)
	// SelectTag selects a composite "run:tag" value.
	SelectTag(tag string)
	// ClearAll resets every filter to its unfiltered default.
	ClearAll()
	// Notify re-evaluates the aggregate filter state and broadcasts it.
	Notify()
}

// Navigator holds page navigation state.
type Navigator interface {
	// ClearState removes a named state value.
	ClearState(key string)
}

// Projector turns a selected history record into filter state.
type Projector struct {
	filters  Subsystem
	nav      Navigator
	location *time.Location
}

// NewProjector creates a projector. nav may be nil when no navigation state
// is kept.
func NewProjector(filters Subsystem, nav Navigator, loc *time.Location) *Projector {
	if loc == nil {
		loc = time.Local
	}
	return &Projector{
		filters:  filters,
		nav:      nav,
		location: loc,
	}
}

// Select projects record and applies the result: all filters are cleared,
// the predicates of the variant are set, the subsystem is notified once and
// the secondary view selector is dropped. A record whose time cannot be
// parsed leaves the filters untouched.
func (p *Projector) Select(record model.RunHistoryRecord) (PredicateSet, error) {
	set, err := Project(record, p.location)
	if err != nil {
		util.LogWarnf("Cannot project history entry of run %q: %v", record.RunName, err)
		return nil, fmt.Errorf("project run %q: %w", record.RunName, err)
	}

	p.filters.ClearAll()
	set.apply(p.filters)
	p.filters.Notify()

	if p.nav != nil {
		p.nav.ClearState(model.StateKeySubtab)
	}

	util.LogDebugf("Applied %s view for run %q (id=%d)", set.Kind(), record.RunName, record.RunID)
	return set, nil
}
