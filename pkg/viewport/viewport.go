// Package viewport drives scroll-triggered loading and scroll feedback for a
// lazily loaded list.
//
// The controller never touches a rendering tree. It reads geometry from, and
// writes scroll position and height to, a Viewport supplied by the host.
package viewport

import "context"

// Viewport is the scrollable region a list renders into.
type Viewport interface {
	// ScrollTop is the distance scrolled from the top, in pixels.
	ScrollTop() float64

	// ScrollHeight is the full content height, in pixels.
	ScrollHeight() float64

	// ClientHeight is the visible height, in pixels.
	ClientHeight() float64

	// ScrollTo smoothly scrolls to position.
	ScrollTo(position float64)

	// SetHeight applies a display height hint, in pixels.
	SetHeight(px float64)
}

// Pager is the page-request side of a loader.
type Pager interface {
	// CanRequest reports whether a request would issue a fetch right now.
	CanRequest() bool

	// RequestMore fetches and merges the next page.
	RequestMore(ctx context.Context) error
}

// Geometry is a snapshot of viewport scroll measurements.
type Geometry struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// Measure reads the current geometry of v.
func Measure(v Viewport) Geometry {
	return Geometry{
		ScrollTop:    v.ScrollTop(),
		ScrollHeight: v.ScrollHeight(),
		ClientHeight: v.ClientHeight(),
	}
}

// Remaining is the unscrolled distance below the visible area.
func (g Geometry) Remaining() float64 {
	return g.ScrollHeight - g.ScrollTop - g.ClientHeight
}
