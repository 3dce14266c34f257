package core

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Random is the deterministic stream shared by the seeded generation stages.
// Stages reseed it explicitly, so output depends only on seed values and call order.
// A Random is not safe for concurrent use.
type Random struct {
	src *rand.PCG
	r   *rand.Rand
}

// NewRandom creates a stream seeded with seed
func NewRandom(seed uint64) *Random {
	src := rand.NewPCG(seed, 0)
	return &Random{src: src, r: rand.New(src)}
}

// Seed restarts the stream from seed
func (r *Random) Seed(seed uint64) {
	r.src.Seed(seed, 0)
}

// Urand returns an integer in [0, op)
func (r *Random) Urand(op uint32) uint32 {
	if op == 0 {
		return 0
	}
	return r.r.Uint32() % op
}

// Frand returns a value in [0, op] with 16 bits of resolution
func (r *Random) Frand(op float32) float32 {
	return float32(r.r.Uint32()&0xFFFF) * (op / 65535)
}

// FrandRange returns a value in [lo, hi]
func (r *Random) FrandRange(lo, hi float32) float32 {
	return r.Frand(hi-lo) + lo
}

// Direction returns a uniformly distributed unit vector (Marsaglia 1972)
func (r *Random) Direction() mgl32.Vec3 {
	var x1, x2, sqr1, sqr2 float32
	for {
		x1 = r.FrandRange(-1, 1)
		x2 = r.FrandRange(-1, 1)
		sqr1 = x1 * x1
		sqr2 = x2 * x2
		if Sqrt32(sqr1+sqr2) < 1 {
			break
		}
	}

	root := Sqrt32(1 - sqr1 - sqr2)
	return mgl32.Vec3{
		2 * x1 * root,
		2 * x2 * root,
		1 - 2*(sqr1+sqr2),
	}
}
