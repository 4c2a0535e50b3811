package lazylist

import (
	"fmt"

	"github.com/Sternrassler/lazy-list-loader/pkg/pagination"
	"github.com/Sternrassler/lazy-list-loader/pkg/viewport"
	"github.com/go-playground/validator/v10"
)

// Trigger selects what asks for the next page.
type Trigger string

const (
	// TriggerButton loads only on an explicit LoadMore.
	TriggerButton Trigger = "button"

	// TriggerScroll loads when the viewport nears its end.
	TriggerScroll Trigger = "scroll"
)

// Layout selects the rendering target.
type Layout string

const (
	// LayoutTable renders plain fixed-height rows.
	LayoutTable Layout = "table"

	// LayoutGrid renders a data grid whose rows get denser on larger pages.
	LayoutGrid Layout = "grid"
)

// TableRowHeights is the row height table for plain tables.
var TableRowHeights = viewport.RowHeightTable{
	{MaxPageSize: 0, RowHeight: 40},
}

// Config describes one list variant.
type Config struct {
	Trigger Trigger `json:"trigger" validate:"required,oneof=button scroll"`
	Layout  Layout  `json:"layout" validate:"required,oneof=table grid"`

	// PageSize is the limit of every page request.
	PageSize int `json:"pageSize" validate:"min=1,max=200"`

	// Source names the record object in logs and metrics.
	Source string `json:"source" validate:"required"`

	// Resident loads the whole result set once and pages it locally.
	Resident bool `json:"resident,omitempty"`

	// RowHeights overrides the layout's row height table.
	RowHeights viewport.RowHeightTable `json:"rowHeights,omitempty"`

	// LoadBuffer and BackToTopThreshold override the viewport thresholds, in pixels.
	LoadBuffer         float64 `json:"loadBuffer,omitempty" validate:"gte=0"`
	BackToTopThreshold float64 `json:"backToTopThreshold,omitempty" validate:"gte=0"`
}

// DefaultConfig returns a variant with the default page size.
func DefaultConfig(trigger Trigger, layout Layout, source string) Config {
	return Config{
		Trigger:  trigger,
		Layout:   layout,
		PageSize: pagination.DefaultPageSize,
		Source:   source,
	}
}

var validate = validator.New()

func (c *Config) setDefaults() {
	if c.PageSize == 0 {
		c.PageSize = pagination.DefaultPageSize
	}
	if c.RowHeights == nil {
		c.RowHeights = RowHeightsFor(c.Layout)
	}
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c.setDefaults()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("lazylist config validation error: %w", err)
	}
	if err := c.RowHeights.Validate(); err != nil {
		return fmt.Errorf("lazylist config validation error: %w", err)
	}
	return nil
}

// RowHeightsFor returns the default row height table of a layout.
func RowHeightsFor(layout Layout) viewport.RowHeightTable {
	if layout == LayoutGrid {
		return viewport.DefaultRowHeights
	}
	return TableRowHeights
}

func (c Config) viewportConfig() viewport.Config {
	vc := viewport.DefaultConfig(c.PageSize)
	vc.LoadOnScroll = c.Trigger == TriggerScroll
	vc.RowHeights = c.RowHeights
	if c.LoadBuffer > 0 {
		vc.LoadBuffer = c.LoadBuffer
	}
	if c.BackToTopThreshold > 0 {
		vc.BackToTopThreshold = c.BackToTopThreshold
	}
	return vc
}
