package compositor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

// offsetDegrade damps the shaky-cam random walk every millisecond
const offsetDegrade = 0.9965

// DistortTable holds one random distort value and one camera shake offset per millisecond
type DistortTable struct {
	distorts []float32
	offsets  []mgl32.Vec3
}

// NewDistortTable draws length entries from rng. Distorts are uniform in [-1, 1];
// offsets integrate a damped random walk so the shake drifts smoothly.
func NewDistortTable(length int, rng *core.Random) *DistortTable {
	t := &DistortTable{
		distorts: make([]float32, 0, length),
		offsets:  make([]mgl32.Vec3, 0, length),
	}
	var offset, delta mgl32.Vec3
	for range length {
		t.distorts = append(t.distorts, rng.FrandRange(-1, 1))

		dx := rng.FrandRange(-1, 1)
		dy := rng.FrandRange(-1, 1)
		dz := rng.FrandRange(-1, 1)
		delta = delta.Add(mgl32.Vec3{dx, dy, dz})
		offset = offset.Add(delta)
		t.offsets = append(t.offsets, offset)
		offset = offset.Mul(offsetDegrade)
		delta = delta.Mul(offsetDegrade)
	}
	return t
}

// Len returns the number of milliseconds covered
func (t *DistortTable) Len() int {
	return len(t.distorts)
}

func (t *DistortTable) index(op string, ms int) (int, bool) {
	if core.Check(ms >= 0 && ms < len(t.distorts), op, "accessing index %d, array size is %d", ms, len(t.distorts)) {
		return ms, true
	}
	return 0, false
}

// Distort returns the distort value for millisecond ms, or 0 out of range
func (t *DistortTable) Distort(ms int) float32 {
	i, ok := t.index("compositor.DistortTable.Distort", ms)
	if !ok {
		return 0
	}
	return t.distorts[i]
}

// Offset returns the shake offset for millisecond ms, or zero out of range
func (t *DistortTable) Offset(ms int) mgl32.Vec3 {
	i, ok := t.index("compositor.DistortTable.Offset", ms)
	if !ok {
		return mgl32.Vec3{}
	}
	return t.offsets[i]
}

// Raster lays the table out row by row, width milliseconds per row, as
// (distort, offset x, offset y, offset z). Texels past the end stay zero.
func (t *DistortTable) Raster(width int) *raster.Image2D {
	width = max(width, 1)
	img := raster.NewImage2D(width, max((t.Len()+width-1)/width, 1), 4)
	for ms := range t.Len() {
		off := t.offsets[ms]
		img.SetPixel(ms%width, ms/width, t.distorts[ms], off[0], off[1], off[2])
	}
	return img
}
