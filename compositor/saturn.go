package compositor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

var (
	bandBright = mgl32.Vec3{0.9, 0.8, 0.5}
	bandDark   = mgl32.Vec3{0.7, 0.6, 0.4}
	bandPole   = mgl32.Vec3{0.3, 0.4, 0.4}

	ringTint = mgl32.Vec3{0.92, 0.86, 0.74}
)

// bandSwitchChance is the per-column probability of picking a new band shade
const bandSwitchChance = 0.05

// SaturnBands builds the one-row latitude color strip of Saturn, pole to pole.
// Shades between bright and dark switch at random columns and fade into the pole color.
func SaturnBands(width int, rng *core.Random) (*raster.Image2D, error) {
	img := raster.NewImage2D(width, 1, 3)
	last := max(width-1, 1)

	mixRatio := rng.Frand(1)
	for ii := 0; ii < width; ii++ {
		if rng.Frand(1) < bandSwitchChance {
			mixRatio = rng.Frand(1)
		}
		fi := float32(ii) / float32(last)
		col := core.MixVec3(core.MixVec3(bandBright, bandDark, mixRatio), bandPole, core.Abs32((fi-0.5)*1.3))
		img.SetPixel(ii, 0, col[0], col[1], col[2])
	}

	if err := img.FilterLowpass(3); err != nil {
		return nil, fmt.Errorf("saturn bands: %w", err)
	}
	return img, nil
}

// RingAlpha converts a ring color to coverage: the fourth root of a smoothstep over its luma
func RingAlpha(r, g, b float32) float32 {
	return core.Sqrt32(core.Sqrt32(core.SmoothStep(0, 2.4, core.Luma(r, g, b))))
}

// SaturnRings builds the one-row radial ring strip, inner edge first, as premultiplied RGBA.
// The density profile is layered OpenSimplex noise with a few fixed gaps.
func SaturnRings(width int, seed int64) *raster.Image2D {
	img := raster.NewImage2D(width, 1, 4)
	noise := opensimplex.NewNormalized(seed)
	last := float64(max(width-1, 1))

	for ii := 0; ii < width; ii++ {
		t := float64(ii) / last
		density := noise.Eval2(t*24, 0.5)*0.5 +
			noise.Eval2(t*96, 7.25)*0.3 +
			noise.Eval2(t*384, 13.75)*0.2
		density *= ringGap(t)
		density *= float64(core.SmoothStep(0, 0.04, float32(t)) * core.SmoothStep(1, 0.96, float32(t)))

		col := ringTint.Mul(float32(density))
		aa := RingAlpha(col[0], col[1], col[2])
		img.SetPixel(ii, 0, col[0]*aa, col[1]*aa, col[2]*aa, aa)
	}
	return img
}

// ringGaps are (center, half width) pairs of near-empty divisions
var ringGaps = [][2]float64{
	{0.28, 0.012},
	{0.62, 0.035},
	{0.88, 0.008},
}

func ringGap(t float64) float64 {
	mul := 1.0
	for _, g := range ringGaps {
		d := (t - g[0]) / g[1]
		if d > -1 && d < 1 {
			mul *= 0.05 + 0.95*d*d
		}
	}
	return mul
}
