package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
)

// Surface is a cube-mapped raster a crawler can carve into
type Surface interface {
	Locate(dir mgl32.Vec3) cubemap.Texel
	Value(t cubemap.Texel, channel int) float32
	SetValue(t cubemap.Texel, channel int, v float32)
}

// CarveMode selects the channel a crawler writes and how impressions combine
type CarveMode int

const (
	// TrailCarve records remaining lifetime in channel 0. Impressions keep the maximum,
	// the path itself keeps the minimum.
	TrailCarve CarveMode = iota
	// DyeCarve punches negative power into channel 3 with a sideways falloff.
	// Both impressions and the path keep the minimum.
	DyeCarve
)

// Channel returns the channel written in this mode
func (m CarveMode) Channel() int {
	if m == DyeCarve {
		return 3
	}
	return 0
}

func (m CarveMode) String() string {
	if m == DyeCarve {
		return "dye"
	}
	return "trail"
}

// Crawler walks over the unit sphere leaving a ring of impressions at every new texel
type Crawler struct {
	pos        mgl32.Vec3
	dir        mgl32.Vec3
	power      float32
	radius     float32
	count      uint32
	lifetime   uint32
	divergence float32
}

// NewCrawler creates a crawler at pos heading along dir. Both vectors are normalized.
func NewCrawler(pos, dir mgl32.Vec3, power, radius float32, count, lifetime uint32, divergence float32) *Crawler {
	return &Crawler{
		pos:        core.Normalize(pos),
		dir:        core.Normalize(dir),
		power:      power,
		radius:     radius,
		count:      count,
		lifetime:   lifetime,
		divergence: divergence,
	}
}

// Position returns the current point on the sphere
func (c *Crawler) Position() mgl32.Vec3 { return c.pos }

// Lifetime returns the number of texels the crawler still has to visit
func (c *Crawler) Lifetime() uint32 { return c.lifetime }

// Spent reports whether the crawler has finished its walk
func (c *Crawler) Spent() bool { return c.lifetime == 0 }

// updateDirection jitters the heading and projects it back onto the tangent plane
func (c *Crawler) updateDirection(rng *core.Random) {
	dx := rng.FrandRange(-c.divergence, c.divergence)
	dy := rng.FrandRange(-c.divergence, c.divergence)
	dz := rng.FrandRange(-c.divergence, c.divergence)
	crs := c.dir.Cross(c.pos)
	c.dir = core.Normalize(c.pos.Cross(crs).Add(mgl32.Vec3{dx, dy, dz}))
}

// Carve walks until the lifetime runs out. Steps that stay within the same texel
// are free; every step into a new texel stamps the impressions and costs one lifetime.
// A heading that collapses to zero would never leave its texel, so the walk stops there.
func (c *Crawler) Carve(s Surface, mode CarveMode, speed float32, rng *core.Random) {
	if !core.Check(speed > 0, "terrain.Crawler.Carve", "non-positive speed: %v", speed) {
		return
	}
	channel := mode.Channel()
	current := s.Locate(c.pos)
	rotMul := float32(2*math.Pi) / float32(c.count)

	for c.lifetime > 0 {
		c.updateDirection(rng)
		if !core.Check(c.dir != (mgl32.Vec3{}), "terrain.Crawler.Carve", "no heading at %v", c.pos) {
			return
		}
		c.pos = core.Normalize(c.pos.Add(c.dir.Mul(speed)))

		next := s.Locate(c.pos)
		if next == current {
			continue
		}
		current = next

		rt := c.dir.Cross(c.pos)
		for ii := uint32(0); ii < c.count; ii++ {
			rot := float32(ii) * rotMul
			ci := core.Cos32(rot)
			si := core.Sin32(rot)
			reach := c.radius
			if ii%2 == 1 {
				reach *= 0.5
			}
			p := c.pos.Add(rt.Mul(si).Add(c.dir.Mul(ci)).Mul(reach))
			texel := s.Locate(p)
			old := s.Value(texel, channel)

			if mode == DyeCarve {
				falloff := core.Cos32(core.Abs32(si) * math.Pi * 0.5)
				s.SetValue(texel, channel, min(old, -c.power*falloff*falloff))
			} else {
				s.SetValue(texel, channel, max(old, float32(c.lifetime)))
			}
		}

		center := -c.power
		if mode == TrailCarve {
			center = float32(c.lifetime)
		}
		s.SetValue(current, channel, min(s.Value(current, channel), center))
		c.lifetime--
	}
}
