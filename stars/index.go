package stars

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
)

// Index buckets every star into exactly one of six face sides.
// It is built once and then only read, so concurrent queries are safe.
type Index struct {
	sides [cubemap.FaceCount]*Side
}

// NewIndex creates an empty index
func NewIndex() *Index {
	idx := &Index{}
	for _, f := range cubemap.Faces {
		idx.sides[f] = NewSide(f)
	}
	return idx
}

// Side returns the bucket of one face
func (idx *Index) Side(f cubemap.Face) *Side {
	return idx.sides[f]
}

// Len returns the total number of stars
func (idx *Index) Len() int {
	n := 0
	for _, s := range idx.sides {
		n += s.Len()
	}
	return n
}

// Add files a star under the face whose axis its mapped direction hits exactly
func (idx *Index) Add(star Location) {
	idx.sides[faceOf(star.Mapped)].Add(star)
}

// faceOf tests the mapped components for ±1 in X, Y, Z order
func faceOf(mapped mgl32.Vec3) cubemap.Face {
	switch {
	case mapped[0] == -1:
		return cubemap.NegX
	case mapped[0] == 1:
		return cubemap.PosX
	case mapped[1] == -1:
		return cubemap.NegY
	case mapped[1] == 1:
		return cubemap.PosY
	case mapped[2] == -1:
		return cubemap.NegZ
	}
	core.CheckFor(core.ErrNoFace, mapped[2] == 1, "stars.Index.Add", "mapped star location %v not mappable to any side", mapped)
	return cubemap.PosZ
}

// Luminosity sums the contributions of all sides for a unit direction and its cube-mapped form.
// Every side is consulted because a star near an edge can light texels on the neighbouring face.
func (idx *Index) Luminosity(dir, mapped mgl32.Vec3) float32 {
	var luminosity float32
	for _, s := range idx.sides {
		luminosity += s.Luminosity(dir, mapped)
	}
	return luminosity
}

// LuminosityAt normalizes dir and computes its mapped form before querying
func (idx *Index) LuminosityAt(dir mgl32.Vec3) float32 {
	return idx.Luminosity(core.Normalize(dir), core.CubeMapped(dir))
}
