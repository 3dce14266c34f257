package cubemap

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

// Side is the raster stored on one face of a cube
type Side interface {
	Width() int
	Height() int
	Channels() int
	Value(x, y, channel int) float32
	SetValue(x, y, channel int, v float32)
	Clear(channel int, value float32)
	MinMax(channel int) (float32, float32)
	Rescale(channel int, lo, hi, ambient float32)
}

// SideFunc computes one texel of one face.
// norm is the unit direction through the texel center and dir the unnormalized cube point.
type SideFunc[T Side] func(norm, dir mgl32.Vec3, x, y int, side T)

// Cube holds six square face rasters of the same size.
// Each face owns its storage exclusively.
type Cube[T Side] struct {
	sides [FaceCount]T
	size  int
}

// NewCube wraps six existing face rasters. All faces must be square and equally sized.
func NewCube[T Side](sides [FaceCount]T) (*Cube[T], error) {
	size := sides[0].Width()
	for _, f := range Faces {
		s := sides[f]
		if s.Width() != size || s.Height() != size {
			return nil, fmt.Errorf("face %s is %dx%d, want %dx%d", f, s.Width(), s.Height(), size, size)
		}
	}
	return &Cube[T]{sides: sides, size: size}, nil
}

// NewImageCube creates a cube of zeroed float rasters
func NewImageCube(size, channels int) *Cube[*raster.Image2D] {
	c := &Cube[*raster.Image2D]{size: size}
	for i := range c.sides {
		c.sides[i] = raster.NewImage2D(size, size, channels)
	}
	return c
}

// Side returns the raster of one face
func (c *Cube[T]) Side(f Face) T {
	return c.sides[f]
}

// Size returns the face width in texels
func (c *Cube[T]) Size() int {
	return c.size
}

// Channels returns the channel count of the faces
func (c *Cube[T]) Channels() int {
	return c.sides[0].Channels()
}

// Locate maps a direction to the texel it projects onto
func (c *Cube[T]) Locate(dir mgl32.Vec3) Texel {
	return Locate(dir, c.size)
}

// Value reads one channel of a texel
func (c *Cube[T]) Value(t Texel, channel int) float32 {
	return c.sides[t.Face].Value(t.X, t.Y, channel)
}

// SetValue writes one channel of a texel
func (c *Cube[T]) SetValue(t Texel, channel int, v float32) {
	c.sides[t.Face].SetValue(t.X, t.Y, channel, v)
}

// Clear sets one channel of every face to value
func (c *Cube[T]) Clear(channel int, value float32) {
	for _, s := range c.sides {
		s.Clear(channel, value)
	}
}

// CalculateSide runs fn over every texel of one face
func (c *Cube[T]) CalculateSide(f Face, fn SideFunc[T]) {
	side := c.sides[f]
	for y := 0; y < c.size; y++ {
		for x := 0; x < c.size; x++ {
			dir := TexelDirection(f, x, y, c.size)
			fn(core.Normalize(dir), dir, x, y, side)
		}
	}
}

// CalculateDistributed runs fn over all faces, one goroutine per face, and waits for all of them.
// An invariant violation raised on any face is returned instead of crashing the process.
func (c *Cube[T]) CalculateDistributed(fn SideFunc[T]) error {
	var g errgroup.Group
	for _, f := range Faces {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					ie, ok := r.(*core.InvariantError)
					if !ok {
						panic(r)
					}
					err = fmt.Errorf("face %s: %w", f, ie)
				}
			}()
			c.CalculateSide(f, fn)
			return nil
		})
	}
	return g.Wait()
}

// MinMax returns the extrema of one channel across all faces
func (c *Cube[T]) MinMax(channel int) (float32, float32) {
	lo := float32(math.MaxFloat32)
	hi := float32(-math.MaxFloat32)
	for _, s := range c.sides {
		slo, shi := s.MinMax(channel)
		lo = min(lo, slo)
		hi = max(hi, shi)
	}
	return lo, hi
}

// NormalizeSides rescales one channel of all faces jointly into [ambient, 1].
// Using the global extrema keeps the seams between faces invisible.
func (c *Cube[T]) NormalizeSides(channel int, ambient float32) {
	lo, hi := c.MinMax(channel)
	if lo == hi {
		return
	}
	for _, s := range c.sides {
		s.Rescale(channel, lo, hi, ambient)
	}
}
