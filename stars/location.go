// Package stars indexes point lights on the sphere for fast luminosity queries.
//
// Stars are bucketed by cube face and then into a 64×64 grid over the face.
// A query visits the 3×3 cell window around its own mapped coordinate on every
// face, which is exact for the tiny angular radii stars use.
package stars

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// Location is a single star
type Location struct {
	Dir        mgl32.Vec3
	Mapped     mgl32.Vec3
	Radius     float32
	Luminosity float32
}

// NewLocation creates a star and caches its cube-mapped direction
func NewLocation(dir mgl32.Vec3, radius, luminosity float32) Location {
	return Location{
		Dir:        core.Normalize(dir),
		Mapped:     core.CubeMapped(dir),
		Radius:     radius,
		Luminosity: luminosity,
	}
}

// Contribution returns the light this star adds in direction dir.
// Inside the radius the strength rises linearly to 1 at the center and the light is strength³·luminosity.
func (l Location) Contribution(dir mgl32.Vec3) float32 {
	angle := dir.Dot(l.Dir)
	if angle < 1-l.Radius {
		return 0
	}
	strength := (angle - 1 + l.Radius) / l.Radius
	return strength * l.Luminosity * strength * strength
}
