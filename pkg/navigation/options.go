package navigation

import (
	"fmt"

	"github.com/go-drift/controlbind/pkg/platform"
)

// Position is the map corner a control is placed in.
type Position string

// Supported positions.
const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
)

// Options configure the native navigation control.
type Options struct {
	// ShowCompass shows the compass button.
	ShowCompass bool `yaml:"show_compass"`
	// ShowZoom shows the zoom-in and zoom-out buttons.
	ShowZoom bool `yaml:"show_zoom"`
	// VisualizePitch tilts the compass to show the map pitch.
	VisualizePitch bool `yaml:"visualize_pitch"`
	// Position is the corner the control is placed in. Empty means TopRight.
	Position Position `yaml:"position,omitempty"`
}

// DefaultOptions returns the native control's defaults.
func DefaultOptions() Options {
	return Options{
		ShowCompass: true,
		ShowZoom:    true,
		Position:    TopRight,
	}
}

// Build converts the options into native construction parameters.
func (o Options) Build() map[string]any {
	pos := o.Position
	if pos == "" {
		pos = TopRight
	}
	return map[string]any{
		"showCompass":    o.ShowCompass,
		"showZoom":       o.ShowZoom,
		"visualizePitch": o.VisualizePitch,
		"position":       string(pos),
	}
}

// Validate reports options the native control would reject.
func (o Options) Validate() error {
	switch o.Position {
	case "", TopLeft, TopRight, BottomLeft, BottomRight:
		return nil
	default:
		return fmt.Errorf("%w: unsupported position %q", platform.ErrInvalidArguments, o.Position)
	}
}
