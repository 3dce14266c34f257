// Package terrain holds the stochastic surface generators: crater fields and
// the crawlers that carve trails into cube-mapped and planar rasters.
package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

const (
	rimPoint        = 0.25
	windowSharpness = 20.0
	craterDepth     = 1.0
)

// Crater is a circular impact on the unit sphere. Radius is angular, expressed as 1 - cos(angle).
type Crater struct {
	Center mgl32.Vec3
	Radius float32
}

// NewCrater creates a crater centered on the normalized dir
func NewCrater(dir mgl32.Vec3, radius float32) Crater {
	return Crater{Center: core.Normalize(dir), Radius: radius}
}

// Distance returns the relative distance of dir from the crater center, 0 at the center and 1 at the rim.
// The second result is false when dir lies outside the crater.
func (c Crater) Distance(dir mgl32.Vec3) (float32, bool) {
	angle := dir.Dot(c.Center)
	lowerBound := 1 - c.Radius
	if angle <= lowerBound {
		return 0, false
	}
	// Floating point can push the penetration slightly past one.
	penetration := min((angle-lowerBound)/c.Radius, 1)
	return 1 - penetration, true
}

// CraterProfile is the crater cross-section at relative distance op in [0, 1).
// A parabolic floor blends into a raised sinusoidal rim around op = 0.25.
func CraterProfile(op float32) float32 {
	if !core.Check(op >= 0 && op < 1, "terrain.CraterProfile", "illegal crater value: %v", op) {
		op = mgl32.Clamp(op, 0, math.Nextafter32(1, 0))
	}

	step := 0.5 + core.Tanh32(windowSharpness*(op-rimPoint))*0.5
	y1 := (3*op)*(3*op) - craterDepth
	y2 := craterDepth * 0.25 * (core.Sin32((op-rimPoint)*(math.Pi/(1-rimPoint))+math.Pi*0.5) + 1)
	return step*y2 + (1-step)*y1
}

// HeightMul scales a crater profile by the eighth root of the crater radius
func HeightMul(radius float32) float32 {
	return core.Sqrt32(core.Sqrt32(core.Sqrt32(radius)))
}

// CraterField is an ordered set of craters. Later craters dominate near their own centers.
type CraterField struct {
	craters []Crater
}

// NewCraterField creates an empty field
func NewCraterField() *CraterField {
	return &CraterField{}
}

// Add appends a crater. There is no limit and no deduplication.
func (f *CraterField) Add(dir mgl32.Vec3, radius float32) {
	f.craters = append(f.craters, NewCrater(dir, radius))
}

// Len returns the number of craters
func (f *CraterField) Len() int {
	return len(f.craters)
}

// Craters returns the craters in insertion order
func (f *CraterField) Craters() []Crater {
	return f.craters
}

// Height composites every crater containing dir in insertion order.
// Each newer crater keeps a share of the accumulated height equal to its own relative distance.
func (f *CraterField) Height(dir mgl32.Vec3) float32 {
	var height float32
	found := false
	for _, c := range f.craters {
		dist, ok := c.Distance(dir)
		if !ok {
			continue
		}
		value := CraterProfile(dist) * HeightMul(c.Radius)
		if !found {
			height = value
			found = true
			continue
		}
		if !core.Check(dist >= 0 && dist <= 1, "terrain.CraterField.Height", "invalid dist: %v", dist) {
			dist = mgl32.Clamp(dist, 0, 1)
		}
		height = dist*height + value
	}
	return height
}
