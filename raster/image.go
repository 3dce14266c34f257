// Package raster holds dense float rasters: 2D images, 3D volumes and their
// sampling, filtering and normalization primitives.
package raster

import (
	"math"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// Image is the storage shared by 2D and 3D rasters.
// Elements are laid out texel-major with channels interleaved.
type Image struct {
	channels int
	data     []float32
}

func newImage(texels, channels int) Image {
	return Image{
		channels: channels,
		data:     make([]float32, texels*channels),
	}
}

// Channels returns the fixed channel count
func (img *Image) Channels() int {
	return img.channels
}

// Data exposes the raw element array
func (img *Image) Data() []float32 {
	return img.data
}

// Clear sets every texel of one channel to value
func (img *Image) Clear(channel int, value float32) {
	for i := channel; i < len(img.data); i += img.channels {
		img.data[i] = value
	}
}

// Noise fills every element with a value from the seeded stream in [floor, ceil]
func (img *Image) Noise(rng *core.Random, floor, ceil float32) {
	for i := range img.data {
		img.data[i] = rng.FrandRange(floor, ceil)
	}
}

// MinMax returns the extrema of one channel
func (img *Image) MinMax(channel int) (float32, float32) {
	lo := float32(math.MaxFloat32)
	hi := float32(-math.MaxFloat32)
	for i := channel; i < len(img.data); i += img.channels {
		v := img.data[i]
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Rescale maps [lo, hi] of one channel onto [ambient, 1]
func (img *Image) Rescale(channel int, lo, hi, ambient float32) {
	if hi == lo {
		return
	}
	mul := (1 - ambient) / (hi - lo)
	for i := channel; i < len(img.data); i += img.channels {
		img.data[i] = mul*(img.data[i]-lo) + ambient
	}
}

// Normalize rescales one channel into [ambient, 1]. A constant channel is left untouched.
func (img *Image) Normalize(channel int, ambient float32) {
	lo, hi := img.MinMax(channel)
	img.Rescale(channel, lo, hi, ambient)
}

// wrap returns i modulo n in [0, n)
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// cell splits a wrapped normalized coordinate into a base texel, its neighbour and the fraction between them
func cell(p float32, n int) (int, int, float32) {
	c := core.Congruence(p, 1) * float32(n)
	u := int(c)
	fract := c - float32(u)
	// Floating point can land exactly on n.
	if u >= n {
		u = 0
		fract = 0
	}
	return u, (u + 1) % n, fract
}
