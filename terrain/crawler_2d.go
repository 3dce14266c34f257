package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// Plane is a wrapping 2D raster a planar crawler can carve into
type Plane interface {
	Width() int
	Height() int
	ClosestTexel(pos mgl32.Vec2) (int, int)
	Value(x, y, channel int) float32
	SetValue(x, y, channel int, v float32)
}

// Crawler2D walks over a wrapping plane pressing a randomized disc into one channel
type Crawler2D struct {
	pos        mgl32.Vec2
	dir        mgl32.Vec2
	power      float32
	radius     float32
	lifetime   uint32
	divergence float32
}

// NewCrawler2D creates a planar crawler. Position and heading are both normalized,
// so the walk starts on the unit circle around the origin of the wrapped plane.
func NewCrawler2D(pos, dir mgl32.Vec2, power, radius float32, lifetime uint32, divergence float32) *Crawler2D {
	return &Crawler2D{
		pos:        core.Normalize2(pos),
		dir:        core.Normalize2(dir),
		power:      power,
		radius:     radius,
		lifetime:   lifetime,
		divergence: divergence,
	}
}

// Lifetime returns the number of texels the crawler still has to visit
func (c *Crawler2D) Lifetime() uint32 { return c.lifetime }

// Spent reports whether the crawler has finished its walk
func (c *Crawler2D) Spent() bool { return c.lifetime == 0 }

func (c *Crawler2D) updateDirection(rng *core.Random) {
	dx := rng.FrandRange(-c.divergence, c.divergence)
	dy := rng.FrandRange(-c.divergence, c.divergence)
	c.dir = core.Normalize2(c.dir.Add(mgl32.Vec2{dx, dy}))
}

// Carve walks until the lifetime runs out, lowering channel under a disc of the crawler radius.
// Every texel in the disc keeps the minimum of its value and a randomized cosine falloff of -power.
func (c *Crawler2D) Carve(p Plane, speed float32, channel int, rng *core.Random) {
	if !core.Check(speed > 0, "terrain.Crawler2D.Carve", "non-positive speed: %v", speed) {
		return
	}
	cx, cy := p.ClosestTexel(c.pos)
	iadv := 1 / float32(p.Width())
	jadv := 1 / float32(p.Height())

	for c.lifetime > 0 {
		c.updateDirection(rng)
		if !core.Check(c.dir != (mgl32.Vec2{}), "terrain.Crawler2D.Carve", "no heading at %v", c.pos) {
			return
		}
		c.pos = c.pos.Add(c.dir.Mul(speed))

		nx, ny := p.ClosestTexel(c.pos)
		if nx == cx && ny == cy {
			continue
		}
		cx, cy = nx, ny

		for ii := -c.radius; ii <= c.radius; ii += iadv {
			for jj := -c.radius; jj <= c.radius; jj += jadv {
				mul := mgl32.Vec2{ii, jj}.Len() / c.radius
				if mul >= 1 {
					continue
				}
				mul = core.Cos32(mul*math.Pi*0.5) * rng.Frand(1)
				mul *= mul
				x, y := p.ClosestTexel(c.pos.Add(mgl32.Vec2{ii, jj}))
				p.SetValue(x, y, channel, min(p.Value(x, y, channel), -c.power*mul))
			}
		}
		c.lifetime--
	}
}
