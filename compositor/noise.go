// Package compositor evaluates the per-texel surface functions of every body:
// layered noise, crater heights, crawler trails, stars and the milky way.
package compositor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

// octaveAmplitudes are the weights of the nine octaves from finest to coarsest
var octaveAmplitudes = [...]float32{0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.45, 0.5}

// OctavePhase selects the sign of the finest octave; signs alternate from there
type OctavePhase int

const (
	// NegativeFirst subtracts the finest octave: -0.1, +0.15, -0.2 ...
	NegativeFirst OctavePhase = iota
	// PositiveFirst adds the finest octave: +0.1, -0.15, +0.2 ...
	PositiveFirst
)

// ParseOctavePhase accepts "negative-first" and "positive-first"
func ParseOctavePhase(s string) (OctavePhase, bool) {
	switch s {
	case "", "negative-first":
		return NegativeFirst, true
	case "positive-first":
		return PositiveFirst, true
	}
	return NegativeFirst, false
}

func (p OctavePhase) String() string {
	if p == PositiveFirst {
		return "positive-first"
	}
	return "negative-first"
}

func (p OctavePhase) sign(octave int) float32 {
	negative := octave%2 == 0
	if p == PositiveFirst {
		negative = !negative
	}
	if negative {
		return -1
	}
	return 1
}

// EnceladusRotation decorrelates successive octaves of the moon surfaces
var EnceladusRotation = mgl32.Mat3{-0.99, -0.16, 0.02, 0.14, -0.77, 0.63, -0.08, 0.62, 0.78}

// Sampler layers nine octaves of a white noise raster into a fractal value.
// Each octave halves the coordinates of the previous one and applies the rotation.
type Sampler struct {
	Noise2D *raster.Image2D
	Noise3D *raster.Image3D
	Phase   OctavePhase
}

// Sample2D evaluates the planar noise. The rotation applies before halving.
func (s *Sampler) Sample2D(pos mgl32.Vec2, rot mgl32.Mat2) float32 {
	var sum float32
	for k, amp := range octaveAmplitudes {
		if k > 0 {
			pos = rot.Mul2x1(pos).Mul(0.5)
		}
		sum += s.Phase.sign(k) * amp * s.Noise2D.Sample(pos, 0)
	}
	return sum
}

// Sample3D evaluates the volume noise. The rotation applies after halving.
func (s *Sampler) Sample3D(pos mgl32.Vec3, rot mgl32.Mat3) float32 {
	var sum float32
	for k, amp := range octaveAmplitudes {
		if k > 0 {
			pos = rot.Mul3x1(pos.Mul(0.5))
		}
		sum += s.Phase.sign(k) * amp * s.Noise3D.Sample(pos, 0)
	}
	return sum
}
