package raster

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// maxFilterChannels bounds the low-pass accumulator
const maxFilterChannels = 4

// Image2D is a width×height float raster
type Image2D struct {
	Image
	width  int
	height int
}

// NewImage2D creates a zeroed raster
func NewImage2D(width, height, channels int) *Image2D {
	return &Image2D{
		Image:  newImage(width*height, channels),
		width:  width,
		height: height,
	}
}

func (img *Image2D) Width() int  { return img.width }
func (img *Image2D) Height() int { return img.height }

// Index returns the element index of a texel channel
func (img *Image2D) Index(x, y, channel int) int {
	return (y*img.width+x)*img.channels + channel
}

func (img *Image2D) Value(x, y, channel int) float32 {
	return img.data[img.Index(x, y, channel)]
}

func (img *Image2D) SetValue(x, y, channel int, v float32) {
	img.data[img.Index(x, y, channel)] = v
}

// SetPixel writes up to Channels() values starting at channel 0
func (img *Image2D) SetPixel(x, y int, values ...float32) {
	base := img.Index(x, y, 0)
	copy(img.data[base:base+img.channels], values)
}

// ClosestTexel returns the texel containing a normalized coordinate, wrapping outside [0, 1)
func (img *Image2D) ClosestTexel(pos mgl32.Vec2) (int, int) {
	x, _, _ := cell(pos[0], img.width)
	y, _, _ := cell(pos[1], img.height)
	return x, y
}

func (img *Image2D) sample(pos mgl32.Vec2, channel int, nearest bool) float32 {
	x1, x2, fx := cell(pos[0], img.width)
	y1, y2, fy := cell(pos[1], img.height)

	if nearest {
		x, y := x1, y1
		if fx >= 0.5 {
			x = x2
		}
		if fy >= 0.5 {
			y = y2
		}
		return img.Value(x, y, channel)
	}

	return core.SmoothMix(
		core.SmoothMix(img.Value(x1, y1, channel), img.Value(x2, y1, channel), fx),
		core.SmoothMix(img.Value(x1, y2, channel), img.Value(x2, y2, channel), fx),
		fy)
}

// Sample reads a channel with smoothstep-weighted bilinear filtering and wrap-around addressing
func (img *Image2D) Sample(pos mgl32.Vec2, channel int) float32 {
	return img.sample(pos, channel, false)
}

// SampleNearest reads the closest of the four neighbouring texels
func (img *Image2D) SampleNearest(pos mgl32.Vec2, channel int) float32 {
	return img.sample(pos, channel, true)
}

// FilterLowpass replaces every texel with the wrapped box average of radius op
func (img *Image2D) FilterLowpass(op int) error {
	if img.channels > maxFilterChannels {
		return fmt.Errorf("cannot filter raster with %d channels", img.channels)
	}
	if op <= 0 {
		return nil
	}

	out := make([]float32, len(img.data))
	divisor := float32((2*op + 1) * (2*op + 1))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			var sums [maxFilterChannels]float32
			for kx := -op; kx <= op; kx++ {
				rx := wrap(x+kx, img.width)
				for ky := -op; ky <= op; ky++ {
					ry := wrap(y+ky, img.height)
					base := img.Index(rx, ry, 0)
					for c := 0; c < img.channels; c++ {
						sums[c] += img.data[base+c]
					}
				}
			}
			base := img.Index(x, y, 0)
			for c := 0; c < img.channels; c++ {
				out[base+c] = sums[c] / divisor
			}
		}
	}
	img.data = out
	return nil
}
