package compositor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/stars"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/terrain"
)

// ImageCube is a cube map of float rasters
type ImageCube = cubemap.Cube[*raster.Image2D]

const (
	enceladusCrawlerHeight = 0.31
	enceladusCraterHeight  = 1.0
	enceladusNoiseHeight   = 3.13
	enceladusNoiseFreq     = 0.27

	tethysCraterHeight = 1.0
	tethysNoiseHeight  = 0.63
	tethysNoiseFreq    = 0.73
)

// Bodies holds the read-only inputs shared by the surface functions.
// All fields are built by the seeded stages and never mutated afterwards,
// so side functions may run on all faces concurrently.
type Bodies struct {
	Sampler
	EnceladusCraters *terrain.CraterField
	TethysCraters    *terrain.CraterField
	Stars            *stars.Index
}

// EnceladusSide writes color and height for one Enceladus texel.
// Channel 3 must already hold the carved crawler depth, which is blended under the new height.
func (b *Bodies) EnceladusSide(norm, dir mgl32.Vec3, x, y int, img *raster.Image2D) {
	noiseHeight := b.Sample3D(norm.Mul(enceladusNoiseFreq), EnceladusRotation) * enceladusNoiseHeight
	craterHeight := b.EnceladusCraters.Height(norm) * enceladusCraterHeight
	stepAbs := core.SmoothStep(-0.61, 0, -core.Abs32(craterHeight))
	stepPos := core.SmoothStep(0, 0.005, craterHeight)
	oldHeight := img.Value(x, y, 3) * enceladusCrawlerHeight
	newHeight := noiseHeight + craterHeight*(1+stepPos*core.Tanh32(noiseHeight*17)*0.4)
	height := oldHeight*stepAbs + newHeight

	color := b.Sample3D(dir.Mul(enceladusNoiseFreq*1.89), EnceladusRotation)*0.3 + 0.65
	blue := b.Sample3D(dir.Mul(enceladusNoiseFreq*2.73), EnceladusRotation)*0.39 + 0.65
	blueDiff := core.Abs32(blue - color)
	blueDiff *= blueDiff

	img.SetPixel(x, y, color, color, color+blueDiff, height)
}

// TethysSide writes luminance and height for one Tethys texel
func (b *Bodies) TethysSide(norm, dir mgl32.Vec3, x, y int, img *raster.Image2D) {
	craterHeight := b.TethysCraters.Height(norm) * tethysCraterHeight
	stepPos := core.SmoothStep(0, 0.005, craterHeight)
	noiseHeight := b.Sample3D(norm.Mul(tethysNoiseFreq), EnceladusRotation) * tethysNoiseHeight
	height := noiseHeight + craterHeight*(1+stepPos*core.Tanh32(noiseHeight*9))
	luminance := b.Sample3D(dir.Mul(3.1), EnceladusRotation)*0.5 + 0.5

	img.SetPixel(x, y, luminance, luminance, luminance, height)
}

// SpaceSide writes the milky way plus star light for one sky texel.
// dir lies on the cube surface and doubles as the mapped direction for the star query.
func (b *Bodies) SpaceSide(norm, dir mgl32.Vec3, x, y int, img *raster.Image2D) {
	lum := b.Stars.Luminosity(norm, dir)
	c := b.MilkyWay(norm).Add(mgl32.Vec3{lum, lum, lum})
	img.SetPixel(x, y, c[0], c[1], c[2])
}

// MilkyWay returns the color of the galactic band in a unit direction
func (b *Bodies) MilkyWay(dir mgl32.Vec3) mgl32.Vec3 {
	fw := core.Normalize(mgl32.Vec3{1, 0.1, -0.2})
	if fw.Dot(dir) <= 0 {
		return mgl32.Vec3{}
	}
	rt := core.Normalize(mgl32.Vec3{0.8, 0.6, 0.1})
	up := rt.Cross(fw)
	rt = fw.Cross(up)
	pos := mgl32.Vec2{core.Asin32(mgl32.Clamp(dir.Dot(rt), -1, 1)), core.Asin32(mgl32.Clamp(dir.Dot(up), -1, 1))}
	ident := mgl32.Ident2()

	ratio := core.SmoothStep(0.8, 0, core.Abs32(pos[0]))
	center := core.MixVec3(mgl32.Vec3{}, mgl32.Vec3{1, 1, 0.8}, b.Sample2D(pos.Mul(0.7), ident)+0.1).
		Mul(core.SmoothStep(0.3*ratio, 0.1*ratio, core.Abs32(pos[1])) * ratio * 0.5)

	// Past |x| = 1/1.57 the overlay has faded out; clamp before the root instead of producing NaN.
	ratio2 := core.Sqrt32(max(1-core.Abs32(pos[0]*1.57), 0))
	overlay := core.MixVec3(mgl32.Vec3{}, mgl32.Vec3{0.8, 0.8, 1}, b.Sample2D(pos.Add(mgl32.Vec2{0.2, 0.2}), ident)+0.1).
		Mul(core.SmoothStep(0.2*ratio2, 0.1*ratio2, core.Abs32(pos[1])) * ratio2 * 0.5)

	return core.MixVec3(core.MaxVec3(center, mgl32.Vec3{}), core.MaxVec3(overlay, mgl32.Vec3{}), 0.5)
}

// Space renders the sky box
func (b *Bodies) Space(size int) (*ImageCube, error) {
	cube := cubemap.NewImageCube(size, 3)
	if err := cube.CalculateDistributed(b.SpaceSide); err != nil {
		return nil, fmt.Errorf("space: %w", err)
	}
	return cube, nil
}

// Enceladus carves the crawler gorges into the height channel, then layers noise, craters and color on top
func (b *Bodies) Enceladus(size int, crawlers *terrain.CrawlerSet, rng *core.Random) (*ImageCube, error) {
	cube := cubemap.NewImageCube(size, 4)
	cube.Clear(3, 0)
	crawlers.Carve(cube, terrain.DyeCarve, terrain.DefaultCrawlSpeed, rng)
	if err := cube.CalculateDistributed(b.EnceladusSide); err != nil {
		return nil, fmt.Errorf("enceladus: %w", err)
	}
	cube.NormalizeSides(3, 0)
	return cube, nil
}

// Tethys renders the crater-dominated Tethys surface
func (b *Bodies) Tethys(size int) (*ImageCube, error) {
	cube := cubemap.NewImageCube(size, 4)
	if err := cube.CalculateDistributed(b.TethysSide); err != nil {
		return nil, fmt.Errorf("tethys: %w", err)
	}
	cube.NormalizeSides(3, 0)
	return cube, nil
}

// Trail carves the single long plume trail drawn around Enceladus
func Trail(size int, rng *core.Random) *ImageCube {
	cube := cubemap.NewImageCube(size, 1)
	cube.Clear(0, 0)
	pos := rng.Direction()
	dir := rng.Direction()
	terrain.NewCrawler(pos, dir, 1, 0.011, 128, 19000, 0.011).
		Carve(cube, terrain.TrailCarve, terrain.DefaultCrawlSpeed, rng)
	cube.NormalizeSides(0, 0)
	return cube
}

// EnceladusSurface carves two planar gorges used for the close-up ground texture
func EnceladusSurface(size int, rng *core.Random) (*raster.Image2D, error) {
	img := raster.NewImage2D(size, size, 1)
	img.Clear(0, 0)
	for range 2 {
		px := rng.Frand(1)
		py := rng.Frand(1)
		rot := rng.Frand(2 * math.Pi)
		dir := mgl32.Vec2{core.Cos32(rot), core.Sin32(rot)}
		power := 0.67 + rng.Frand(0.33)
		radius := 0.04 + rng.Frand(0.02)
		lifetime := 64 + rng.Urand(920)
		divergence := rng.Frand(0.08)
		terrain.NewCrawler2D(mgl32.Vec2{px, py}, dir, power, radius, lifetime, divergence).
			Carve(img, terrain.DefaultCrawlSpeed, 0, rng)
	}
	if err := img.FilterLowpass(3); err != nil {
		return nil, fmt.Errorf("enceladus surface: %w", err)
	}
	img.Normalize(0, 0)
	return img, nil
}
