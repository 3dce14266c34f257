//go:build !raylib

package rendering

import (
	"context"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

// Viewer is a placeholder that satisfies the API of the raylib build
type Viewer struct{}

// NewViewer returns a viewer whose Run always fails
func NewViewer(config.ViewerSettings, *timeline.Timeline) *Viewer {
	return &Viewer{}
}

// Run reports that no window can be opened in this build
func (v *Viewer) Run(context.Context, Source) error {
	return ErrUnavailable
}
