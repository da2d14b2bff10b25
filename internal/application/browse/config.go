package browse

import (
	"fmt"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/presentation/layout"
)

// BrowseConfig contains configuration for browsing run history
type BrowseConfig struct {
	// History selection passed to the source
	Query model.HistoryQuery

	// Display settings
	Timezone string
	Order    string // desc, asc
	Layout   string // full, minimal

	// Watch settings
	RefreshInterval time.Duration
}

// Validate fills defaults and rejects invalid settings.
func (c *BrowseConfig) Validate() error {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	switch c.Order {
	case "":
		c.Order = "desc"
	case "desc", "asc":
	default:
		return fmt.Errorf("invalid order %q: must be desc or asc", c.Order)
	}
	if c.Layout == "" {
		c.Layout = layout.StyleFull
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = 30 * time.Second
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh interval %s is below one second", c.RefreshInterval)
	}
	if c.Query.Limit < 0 || c.Query.Offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	return nil
}
