package filter

import (
	"net/url"
	"sync"

	"github.com/penwyp/go-run-history/internal/core/model"
)

// Query parameter names of the filter state.
const (
	ParamRunName         = "run"
	ParamDetectionStatus = "detection-status"
	ParamDetectedAfter   = "first-detection-date"
	ParamDetectedBefore  = "fix-date"
	ParamRunTag          = "run-tag"
)

// DateRange is an inclusive range of filter dates. Empty bounds are open.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// IsZero reports whether the range is unbounded.
func (r DateRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// State is the aggregate filter state of the results view.
type State struct {
	RunNames          []string                `json:"runNames,omitempty"`
	DetectionStatuses []model.DetectionStatus `json:"detectionStatuses,omitempty"`
	DetectionDate     DateRange               `json:"detectionDate"`
	Tags              []string                `json:"tags,omitempty"`
}

// IsEmpty reports whether no filter is active.
func (s State) IsEmpty() bool {
	return len(s.RunNames) == 0 && len(s.DetectionStatuses) == 0 &&
		s.DetectionDate.IsZero() && len(s.Tags) == 0
}

// Values encodes the state as query parameters.
func (s State) Values() url.Values {
	values := url.Values{}
	for _, name := range s.RunNames {
		values.Add(ParamRunName, name)
	}
	for _, status := range s.DetectionStatuses {
		values.Add(ParamDetectionStatus, status.String())
	}
	if s.DetectionDate.From != "" {
		values.Set(ParamDetectedAfter, s.DetectionDate.From)
	}
	if s.DetectionDate.To != "" {
		values.Set(ParamDetectedBefore, s.DetectionDate.To)
	}
	for _, tag := range s.Tags {
		values.Add(ParamRunTag, tag)
	}
	return values
}

func (s State) clone() State {
	out := State{DetectionDate: s.DetectionDate}
	if s.RunNames != nil {
		out.RunNames = append([]string(nil), s.RunNames...)
	}
	if s.DetectionStatuses != nil {
		out.DetectionStatuses = append([]model.DetectionStatus(nil), s.DetectionStatuses...)
	}
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	return out
}

// Listener receives the filter state after each Notify.
type Listener func(state State)

// Store is an in-process filter subsystem. Setters only stage changes;
// listeners observe the state when Notify is called.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []Listener
	revision  int
}

// NewStore creates an empty filter store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers a listener for broadcasts.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) SelectRunName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RunNames = []string{name}
}

func (s *Store) SelectDetectionStatuses(statuses []model.DetectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DetectionStatuses = append([]model.DetectionStatus(nil), statuses...)
}

func (s *Store) FixDetectionDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DetectionDate = DateRange{From: date, To: date}
}

func (s *Store) SelectTag(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Tags = []string{tag}
}

func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
}

// Notify broadcasts the current state to all listeners.
func (s *Store) Notify() {
	s.mu.Lock()
	s.revision++
	snapshot := s.state.clone()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Revision returns how many times the state has been broadcast.
func (s *Store) Revision() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
