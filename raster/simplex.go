package raster

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// SimplexFill writes normalized OpenSimplex noise into one channel of a 2D raster.
// The noise is evaluated on a torus so the result tiles like the white-noise fill.
func (img *Image2D) SimplexFill(seed int64, channel int, frequency float64) {
	noise := opensimplex.NewNormalized(seed)
	for y := 0; y < img.height; y++ {
		v := float64(y) / float64(img.height)
		for x := 0; x < img.width; x++ {
			u := float64(x) / float64(img.width)
			img.SetValue(x, y, channel, float32(tileable2(noise, u, v, frequency)))
		}
	}
}

// SimplexFill writes normalized OpenSimplex noise into one channel of a volume.
// Volumes are not tileable; the sample points span one period of frequency per axis.
func (img *Image3D) SimplexFill(seed int64, channel int, frequency float64) {
	noise := opensimplex.NewNormalized(seed)
	for z := 0; z < img.depth; z++ {
		fz := float64(z) / float64(img.depth) * frequency
		for y := 0; y < img.height; y++ {
			fy := float64(y) / float64(img.height) * frequency
			for x := 0; x < img.width; x++ {
				fx := float64(x) / float64(img.width) * frequency
				img.SetValue(x, y, z, channel, float32(noise.Eval3(fx, fy, fz)))
			}
		}
	}
}

// tileable2 maps (u, v) on the unit square to a 4D torus so both axes wrap
func tileable2(noise opensimplex.Noise, u, v, frequency float64) float64 {
	const tau = 2 * math.Pi
	r := frequency / tau
	return noise.Eval4(
		r*math.Cos(u*tau), r*math.Sin(u*tau),
		r*math.Cos(v*tau), r*math.Sin(v*tau))
}
