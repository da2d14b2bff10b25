package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider resolves the display timezone used for day labels and
// filter dates.
type TimeProvider struct {
	mu       sync.RWMutex
	location *time.Location
}

var (
	globalTimeProvider *TimeProvider
	timeMu             sync.Mutex
)

// LoadTimezone resolves a timezone name; "" and "Local" mean time.Local.
func LoadTimezone(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Europe/Budapest, Asia/Shanghai", timezone, err)
	}
	return loc, nil
}

// NewTimeProvider creates a provider for the given timezone.
func NewTimeProvider(timezone string) (*TimeProvider, error) {
	loc, err := LoadTimezone(timezone)
	if err != nil {
		return nil, err
	}
	return &TimeProvider{location: loc}, nil
}

// InitializeTimeProvider installs the global time provider. The previous
// provider is kept when timezone is invalid.
func InitializeTimeProvider(timezone string) error {
	provider, err := NewTimeProvider(timezone)
	if err != nil {
		return err
	}

	timeMu.Lock()
	defer timeMu.Unlock()
	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global provider, defaulting to Local.
func GetTimeProvider() *TimeProvider {
	timeMu.Lock()
	defer timeMu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local}
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone of the provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	loc, err := LoadTimezone(timezone)
	if err != nil {
		return err
	}
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.location = loc
	return nil
}

// Location returns the configured location.
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	if tp.location == nil {
		return time.Local
	}
	return tp.location
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	return time.Now().In(tp.Location())
}

// In converts a time to the configured timezone
func (tp *TimeProvider) In(t time.Time) time.Time {
	return t.In(tp.Location())
}

// Format formats t in the configured timezone
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return t.In(tp.Location()).Format(layout)
}
