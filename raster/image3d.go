package raster

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// Image3D is a width×height×depth float volume
type Image3D struct {
	Image
	width  int
	height int
	depth  int
}

// NewImage3D creates a zeroed volume
func NewImage3D(width, height, depth, channels int) *Image3D {
	return &Image3D{
		Image:  newImage(width*height*depth, channels),
		width:  width,
		height: height,
		depth:  depth,
	}
}

func (img *Image3D) Width() int  { return img.width }
func (img *Image3D) Height() int { return img.height }
func (img *Image3D) Depth() int  { return img.depth }

// Index returns the element index of a voxel channel
func (img *Image3D) Index(x, y, z, channel int) int {
	return (z*img.width*img.height+y*img.width+x)*img.channels + channel
}

func (img *Image3D) Value(x, y, z, channel int) float32 {
	return img.data[img.Index(x, y, z, channel)]
}

func (img *Image3D) SetValue(x, y, z, channel int, v float32) {
	img.data[img.Index(x, y, z, channel)] = v
}

func (img *Image3D) sample(pos mgl32.Vec3, channel int, nearest bool) float32 {
	x1, x2, fx := cell(pos[0], img.width)
	y1, y2, fy := cell(pos[1], img.height)
	z1, z2, fz := cell(pos[2], img.depth)

	if nearest {
		x, y, z := x1, y1, z1
		if fx >= 0.5 {
			x = x2
		}
		if fy >= 0.5 {
			y = y2
		}
		if fz >= 0.5 {
			z = z2
		}
		return img.Value(x, y, z, channel)
	}

	plane := func(z int) float32 {
		return core.SmoothMix(
			core.SmoothMix(img.Value(x1, y1, z, channel), img.Value(x2, y1, z, channel), fx),
			core.SmoothMix(img.Value(x1, y2, z, channel), img.Value(x2, y2, z, channel), fx),
			fy)
	}
	return core.SmoothMix(plane(z1), plane(z2), fz)
}

// Sample reads a channel with smoothstep-weighted trilinear filtering and wrap-around addressing
func (img *Image3D) Sample(pos mgl32.Vec3, channel int) float32 {
	return img.sample(pos, channel, false)
}

// SampleNearest reads the closest of the eight neighbouring voxels
func (img *Image3D) SampleNearest(pos mgl32.Vec3, channel int) float32 {
	return img.sample(pos, channel, true)
}
