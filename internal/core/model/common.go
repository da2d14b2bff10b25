package model

import (
	"fmt"
	"strings"
)

// DetectionStatus is the lifecycle state of a finding.
type DetectionStatus int

const (
	StatusNew DetectionStatus = iota
	StatusResolved
	StatusUnresolved
	StatusReopened
	StatusOff
	StatusUnavailable
)

var detectionStatusNames = map[DetectionStatus]string{
	StatusNew:         "NEW",
	StatusResolved:    "RESOLVED",
	StatusUnresolved:  "UNRESOLVED",
	StatusReopened:    "REOPENED",
	StatusOff:         "OFF",
	StatusUnavailable: "UNAVAILABLE",
}

func (s DetectionStatus) String() string {
	if name, ok := detectionStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("DetectionStatus(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s DetectionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *DetectionStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseDetectionStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseDetectionStatus parses a status name, case-insensitively.
func ParseDetectionStatus(name string) (DetectionStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for status, n := range detectionStatusNames {
		if n == upper {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown detection status: %q", name)
}

// OutstandingStatuses are the statuses of findings still open after a run.
func OutstandingStatuses() []DetectionStatus {
	return []DetectionStatus{StatusNew, StatusUnresolved, StatusReopened}
}

// Navigation state keys
const (
	StateKeySubtab = "subtab"
)
