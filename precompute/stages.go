package precompute

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/compositor"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/stars"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/terrain"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

const (
	starRadius = 0.0000022

	enceladusCraterCount = 160
	tethysCraterCount    = 155
	crawlerCount         = 444
	crawlerImpressions   = 128

	simplexFrequency = 8
)

// Assets are the read-only inputs built by the seeded synchronous stages
type Assets struct {
	Bands   *raster.Image2D
	Distort *compositor.DistortTable
	Noise2D *raster.Image2D
	NoiseHQ *raster.Image3D
	NoiseLQ *raster.Image3D
	Bodies  *compositor.Bodies

	Crawlers *terrain.CrawlerSet
}

// buildTables draws the Saturn bands and then the distort table from the same stream
func buildTables(g config.GenerationSettings) (*raster.Image2D, *compositor.DistortTable, error) {
	rng := core.NewRandom(g.Seeds.Bands)
	bands, err := compositor.SaturnBands(g.Scaled(g.BandsWidth), rng)
	if err != nil {
		return nil, nil, err
	}
	return bands, compositor.NewDistortTable(timeline.IntroLength, rng), nil
}

// buildNoise fills the 2D and both 3D noise rasters. White noise draws in the order
// 2D, high quality volume, low quality volume from rng.
func buildNoise(g config.GenerationSettings, rng *core.Random) (*raster.Image2D, *raster.Image3D, *raster.Image3D, error) {
	n2 := g.Scaled(g.Noise2DSize)
	hq := g.Scaled(g.Noise3DHQSize)
	lq := g.Scaled(g.Noise3DLQSize)

	noise2d := raster.NewImage2D(n2, n2, 1)
	noiseHQ := raster.NewImage3D(hq, hq, hq, 1)
	noiseLQ := raster.NewImage3D(lq, lq, lq, 1)

	switch g.NoiseSource {
	case "simplex":
		seed := int64(g.Seeds.Main)
		noise2d.SimplexFill(seed, 0, simplexFrequency)
		noiseHQ.SimplexFill(seed+1, 0, simplexFrequency)
		noiseLQ.SimplexFill(seed+2, 0, simplexFrequency)
	case "", "white":
		noise2d.Noise(rng, 0, 1)
		noiseHQ.Noise(rng, 0, 1)
		noiseLQ.Noise(rng, 0, 1)
	default:
		return nil, nil, nil, fmt.Errorf("unknown noise source %q", g.NoiseSource)
	}

	noise2d.Normalize(0, 0)
	noiseHQ.Normalize(0, 0)
	noiseLQ.Normalize(0, 0)
	return noise2d, noiseHQ, noiseLQ, nil
}

// buildStars scatters count stars of the fixed angular radius
func buildStars(count int, rng *core.Random) *stars.Index {
	idx := stars.NewIndex()
	for range count {
		dir := rng.Direction()
		lum := rng.FrandRange(0.1, 1)
		idx.Add(stars.NewLocation(dir, starRadius, lum))
	}
	return idx
}

// buildEnceladusCraters places many small craters; the fifth power keeps most of them tiny
func buildEnceladusCraters(rng *core.Random) *terrain.CraterField {
	field := terrain.NewCraterField()
	for range enceladusCraterCount {
		dir := rng.Direction()
		cs := rng.FrandRange(0.2, 1)
		field.Add(dir, 0.0005+0.003*cs*cs*cs*cs*cs)
	}
	return field
}

// buildCrawlers seeds the gorge agents carved into Enceladus
func buildCrawlers(count int, rng *core.Random) *terrain.CrawlerSet {
	var set terrain.CrawlerSet
	for range count {
		pos := rng.Direction()
		dir := rng.Direction()
		power := 0.25 + rng.Frand(0.45)
		radius := 0.0025 + rng.Frand(0.0015)
		lifetime := 64 + rng.Urand(900)
		divergence := rng.Frand(0.05)
		set.Add(pos, dir, power, radius, crawlerImpressions, lifetime, divergence)
	}
	return &set
}

// buildTethysCraters places larger craters plus the one giant impact basin
func buildTethysCraters(rng *core.Random) *terrain.CraterField {
	field := terrain.NewCraterField()
	for range tethysCraterCount {
		dir := rng.Direction()
		cs := rng.FrandRange(0.3, 1)
		field.Add(dir, 0.001+0.02*cs*cs*cs*cs)
	}
	field.Add(core.Normalize(mgl32.Vec3{0, 0.5, 1}), 0.06)
	return field
}
