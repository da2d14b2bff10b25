package browse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-run-history/internal/core/filter"
	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/data/watcher"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
	"github.com/penwyp/go-run-history/internal/presentation/interaction"
	"github.com/penwyp/go-run-history/internal/util"
)

// Orchestrator wires a history source to the day grouper and the renderer,
// and selections on the rendered history to the results filter.
type Orchestrator struct {
	config *BrowseConfig

	refreshCtrl  *RefreshController
	stateManager *StateManager
	grouper      *history.Grouper
	sorter       DaySortStrategy
	renderer     Renderer

	// Results filter and its navigation state
	filters   *filter.Store
	nav       *HashState
	projector *filter.Projector
	selectMu  sync.Mutex
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *BrowseConfig, src source.Source, renderer Renderer) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("no history source configured")
	}
	if renderer == nil {
		return nil, fmt.Errorf("no renderer configured")
	}

	loc, err := util.LoadTimezone(config.Timezone)
	if err != nil {
		return nil, err
	}
	grouper := history.NewGrouperInLocation(loc)

	sorter := interaction.NewDaySorter()
	sorter.SetOrder(interaction.ParseSortOrder(config.Order))

	filters := filter.NewStore()
	nav := NewHashState()
	filters.Subscribe(nav.SyncFilter)

	return &Orchestrator{
		config:       config,
		refreshCtrl:  NewRefreshController(src, config.Query),
		stateManager: NewStateManager(),
		grouper:      grouper,
		sorter:       sorter,
		renderer:     renderer,
		filters:      filters,
		nav:          nav,
		projector:    filter.NewProjector(filters, nav, loc),
	}, nil
}

// State returns the state manager
func (o *Orchestrator) State() *StateManager {
	return o.stateManager
}

// Navigation returns the navigation state mirrored from the filter.
func (o *Orchestrator) Navigation() *HashState {
	return o.nav
}

// Filters returns the results filter.
func (o *Orchestrator) Filters() *filter.Store {
	return o.filters
}

// Refresh performs one fetch and hands the outcome to OnHistoryFetched.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.stateManager.SetLoadingState(true, "Loading run history...")
	records, err := o.refreshCtrl.Fetch(ctx)
	return o.OnHistoryFetched(records, err)
}

// OnHistoryFetched is the completion callback of a fetch. On success the
// records are grouped by day and rendered. On failure the error is
// rendered and the previous history is kept.
func (o *Orchestrator) OnHistoryFetched(records []model.RunHistoryRecord, fetchErr error) error {
	defer o.stateManager.SetLoadingState(false, "")

	if fetchErr != nil {
		return o.fail(fetchErr)
	}

	buckets, err := o.grouper.Group(records)
	if err != nil {
		return o.fail(err)
	}

	o.stateManager.SetBuckets(buckets)
	util.LogInfo("Run history updated",
		util.F("entries", buckets.Total()),
		util.F("days", buckets.Len()))
	o.renderer.RenderHistory(o.sorter.Sort(buckets))
	return nil
}

func (o *Orchestrator) fail(err error) error {
	util.LogError("Failed to update run history", util.F("error", err.Error()))
	o.stateManager.SetLastError(err)
	o.renderer.RenderError(err)
	return err
}

// Days returns the current history in display order.
func (o *Orchestrator) Days() []history.DayBucket {
	return o.sorter.Sort(o.stateManager.GetBuckets())
}

// ToggleOrder flips the day order and re-renders.
func (o *Orchestrator) ToggleOrder() {
	o.sorter.Toggle()
	o.renderer.RenderHistory(o.Days())
}

// SelectRecord opens record in the results filter and returns the applied
// predicates with the resulting filter and navigation state.
func (o *Orchestrator) SelectRecord(record model.RunHistoryRecord) (formatter.Selection, error) {
	o.selectMu.Lock()
	defer o.selectMu.Unlock()

	set, err := o.projector.Select(record)
	if err != nil {
		return formatter.Selection{}, err
	}

	sel := formatter.Selection{
		View:       set.Kind(),
		Predicates: set,
		State:      o.filters.State(),
		Hash:       o.nav.Encode(),
	}
	o.stateManager.SetSelection(sel)
	return sel, nil
}

// SelectIndex opens the entry shown at a 1-based position of Days.
func (o *Orchestrator) SelectIndex(index int) (formatter.Selection, error) {
	record, err := formatter.RecordAt(o.Days(), index)
	if err != nil {
		return formatter.Selection{}, err
	}
	return o.SelectRecord(record)
}

// Run refreshes on file changes, on a timer and on request until ctx ends
// or the user quits. monitor and input may be nil.
func (o *Orchestrator) Run(ctx context.Context, monitor FileMonitor, input InputHandler) error {
	util.LogInfo("Starting run history watch...")

	_ = o.Refresh(ctx)

	ticker := time.NewTicker(o.config.RefreshInterval)
	defer ticker.Stop()

	var fileEvents <-chan watcher.FileEvent
	if monitor != nil {
		fileEvents = monitor.Events()
	}
	var keyEvents <-chan interaction.KeyEvent
	if input != nil {
		keyEvents = input.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down run history watch...")
			return nil

		case <-ticker.C:
			_ = o.Refresh(ctx)

		case ev, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			util.LogDebugf("History file changed: %s (%s)", ev.Path, ev.Operation)
			_ = o.Refresh(ctx)

		case key := <-keyEvents:
			switch interaction.ActionFor(key) {
			case interaction.ActionQuit:
				return nil
			case interaction.ActionRefresh:
				_ = o.Refresh(ctx)
			case interaction.ActionToggleOrder:
				o.ToggleOrder()
			case interaction.ActionToggleLayout:
				if t, ok := o.renderer.(layoutToggler); ok {
					t.ToggleLayout()
					o.renderer.RenderHistory(o.Days())
				}
			}
		}
	}
}

// layoutToggler is implemented by renderers with more than one layout.
type layoutToggler interface {
	ToggleLayout()
}
