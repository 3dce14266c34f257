package terrain

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) < float64(eps)
}

func TestSingleCrater(t *testing.T) {
	field := NewCraterField()
	field.Add(mgl32.Vec3{0, 0, 1}, 0.1)

	want := CraterProfile(0) * HeightMul(0.1)
	if got := field.Height(mgl32.Vec3{0, 0, 1}); !near(got, want, 1e-6) {
		t.Errorf("height at center = %v, want %v", got, want)
	}
	if got := field.Height(mgl32.Vec3{0, 1, 0}); got != 0 {
		t.Errorf("height outside crater = %v, want 0", got)
	}
}

func TestHeightOutsideEveryCrater(t *testing.T) {
	rng := core.NewRandom(3)
	field := NewCraterField()
	for i := 0; i < 50; i++ {
		dir := rng.Direction()
		// Keep every crater in the upper hemisphere.
		dir[2] = core.Abs32(dir[2]) + 0.5
		field.Add(dir, rng.FrandRange(0.0005, 0.01))
	}

	for i := 0; i < 200; i++ {
		dir := rng.Direction()
		dir[2] = -core.Abs32(dir[2])
		if got := field.Height(dir); got != 0 {
			t.Fatalf("height at %v = %v, want 0", dir, got)
		}
	}
}

func TestHeightMulMonotonic(t *testing.T) {
	radii := []float32{0.0001, 0.0005, 0.001, 0.01, 0.06, 0.1, 0.5}
	for i := 1; i < len(radii); i++ {
		if HeightMul(radii[i-1]) >= HeightMul(radii[i]) {
			t.Errorf("HeightMul(%v) >= HeightMul(%v)", radii[i-1], radii[i])
		}
	}
}

func TestCraterProfileShape(t *testing.T) {
	if d := core.Abs32(CraterProfile(0.24999) - CraterProfile(0.25001)); d >= 1e-3 {
		t.Errorf("profile jumps by %v across the rim point", d)
	}
	if floor := CraterProfile(0); !near(floor, -1, 1e-3) {
		t.Errorf("floor = %v, want about -1", floor)
	}
	// The rim is raised above the surrounding surface.
	if rim := CraterProfile(0.3); rim <= 0 {
		t.Errorf("rim = %v, want positive", rim)
	}
	if edge := CraterProfile(0.99999); !near(edge, 0, 1e-3) {
		t.Errorf("edge = %v, want about 0", edge)
	}
}

func TestCraterProfilePolicy(t *testing.T) {
	defer core.SetPolicy(core.CurrentPolicy())

	core.SetPolicy(core.Lenient)
	if got, want := CraterProfile(1.5), CraterProfile(math.Nextafter32(1, 0)); got != want {
		t.Errorf("lenient profile(1.5) = %v, want clamped %v", got, want)
	}

	core.SetPolicy(core.Strict)
	defer func() {
		if _, ok := recover().(*core.InvariantError); !ok {
			t.Errorf("strict profile(-0.1) did not panic")
		}
	}()
	CraterProfile(-0.1)
}

func TestNewerCraterDominates(t *testing.T) {
	field := NewCraterField()
	field.Add(mgl32.Vec3{0, 0, 1}, 0.2)
	field.Add(mgl32.Vec3{0, 0, 1}, 0.1)

	// At the shared center the newer crater has relative distance 0 and keeps nothing of the older one.
	want := CraterProfile(0) * HeightMul(0.1)
	if got := field.Height(mgl32.Vec3{0, 0, 1}); !near(got, want, 1e-6) {
		t.Errorf("height at center = %v, want %v", got, want)
	}

	dir := core.Normalize(mgl32.Vec3{0, 0.3, 1})
	older, _ := field.Craters()[0].Distance(dir)
	newer, ok := field.Craters()[1].Distance(dir)
	if !ok {
		t.Fatalf("sample direction outside the newer crater")
	}
	want = newer*CraterProfile(older)*HeightMul(0.2) + CraterProfile(newer)*HeightMul(0.1)
	if got := field.Height(dir); !near(got, want, 1e-5) {
		t.Errorf("composited height = %v, want %v", got, want)
	}
}

func TestCrawlerCarveTerminates(t *testing.T) {
	tests := []struct {
		name       string
		divergence float32
		speed      float32
	}{
		{"straight", 0, 0.01},
		{"wandering", 0.05, 0.01},
		{"sub-texel steps", 0.01, 0.001},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cube := cubemap.NewImageCube(32, 1)
			c := NewCrawler(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, 1, 0.02, 16, 40, tc.divergence)
			c.Carve(cube, TrailCarve, tc.speed, core.NewRandom(11))
			if !c.Spent() {
				t.Errorf("crawler has %d lifetime left", c.Lifetime())
			}
			if l := c.Position().Len(); !near(l, 1, 1e-4) {
				t.Errorf("crawler left the sphere: |pos| = %v", l)
			}
		})
	}
}

func TestTrailCarveMarksLifetime(t *testing.T) {
	cube := cubemap.NewImageCube(32, 1)
	c := NewCrawler(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, 1, 0.05, 32, 20, 0)
	c.Carve(cube, TrailCarve, 0.01, core.NewRandom(8))

	_, hi := cube.MinMax(0)
	if hi != 20 {
		t.Errorf("highest impression = %v, want initial lifetime 20", hi)
	}
}

func TestDyeCarveOnlyDeepens(t *testing.T) {
	cube := cubemap.NewImageCube(32, 4)
	cube.Clear(3, 0)

	const power = 0.5
	NewCrawler(mgl32.Vec3{1, 0.2, 0}, mgl32.Vec3{0, 0, 1}, power, 0.03, 32, 30, 0.02).
		Carve(cube, DyeCarve, 0.005, core.NewRandom(4))

	before := make(map[cubemap.Texel]float32)
	carved := 0
	for _, f := range cubemap.Faces {
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				texel := cubemap.Texel{Face: f, X: x, Y: y}
				v := cube.Value(texel, 3)
				if v > 0 || v < -power {
					t.Fatalf("texel %+v = %v outside [-power, 0]", texel, v)
				}
				if v < 0 {
					carved++
				}
				before[texel] = v
			}
		}
	}
	if carved == 0 {
		t.Fatalf("nothing was carved")
	}

	// A second pass from the same starting state may only lower values further.
	NewCrawler(mgl32.Vec3{1, 0.2, 0}, mgl32.Vec3{0, 0, 1}, power, 0.03, 32, 30, 0.02).
		Carve(cube, DyeCarve, 0.005, core.NewRandom(4))
	for texel, old := range before {
		if v := cube.Value(texel, 3); v > old {
			t.Fatalf("texel %+v rose from %v to %v", texel, old, v)
		}
	}

	// Other channels are untouched.
	if lo, hi := cube.MinMax(0); lo != 0 || hi != 0 {
		t.Errorf("channel 0 modified: [%v, %v]", lo, hi)
	}
}

func TestCarveRejectsZeroSpeed(t *testing.T) {
	defer core.SetPolicy(core.CurrentPolicy())
	core.SetPolicy(core.Lenient)

	cube := cubemap.NewImageCube(8, 1)
	c := NewCrawler(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, 1, 0.02, 4, 10, 0)
	c.Carve(cube, TrailCarve, 0, core.NewRandom(1))
	if c.Lifetime() != 10 {
		t.Errorf("zero-speed carve consumed lifetime: %d left", c.Lifetime())
	}
}

func TestCarveStopsWithoutHeading(t *testing.T) {
	tests := []struct {
		name  string
		carve func() uint32
	}{
		{"heading along position", func() uint32 {
			c := NewCrawler(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 1}, 1, 0.05, 8, 10, 0)
			c.Carve(cubemap.NewImageCube(16, 1), TrailCarve, 0.01, core.NewRandom(1))
			return c.Lifetime()
		}},
		{"zero heading", func() uint32 {
			c := NewCrawler(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, 1, 0.05, 8, 10, 0)
			c.Carve(cubemap.NewImageCube(16, 4), DyeCarve, 0.01, core.NewRandom(1))
			return c.Lifetime()
		}},
		{"planar zero heading", func() uint32 {
			c := NewCrawler2D(mgl32.Vec2{0.3, 0.7}, mgl32.Vec2{}, 1, 0.05, 10, 0)
			c.Carve(raster.NewImage2D(32, 32, 1), 0.01, 0, core.NewRandom(1))
			return c.Lifetime()
		}},
	}

	defer core.SetPolicy(core.CurrentPolicy())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core.SetPolicy(core.Lenient)
			done := make(chan uint32, 1)
			go func() { done <- tc.carve() }()
			select {
			case left := <-done:
				if left != 10 {
					t.Errorf("stalled carve consumed lifetime: %d left", left)
				}
			case <-time.After(5 * time.Second):
				t.Fatalf("carve did not terminate")
			}

			core.SetPolicy(core.Strict)
			func() {
				defer func() {
					if _, ok := recover().(*core.InvariantError); !ok {
						t.Errorf("strict stalled carve did not panic")
					}
				}()
				tc.carve()
			}()
		})
	}
}

func TestCrawler2DCarve(t *testing.T) {
	img := raster.NewImage2D(64, 64, 1)
	const power = 0.8
	c := NewCrawler2D(mgl32.Vec2{0.3, 0.7}, mgl32.Vec2{1, 1}, power, 0.05, 25, 0.08)
	c.Carve(img, 0.01, 0, core.NewRandom(16))

	if !c.Spent() {
		t.Fatalf("crawler has %d lifetime left", c.Lifetime())
	}
	lo, hi := img.MinMax(0)
	if hi != 0 {
		t.Errorf("carving raised a texel to %v", hi)
	}
	if lo >= 0 || lo < -power {
		t.Errorf("deepest texel = %v, want in [-%v, 0)", lo, power)
	}
}

func TestCrawlerSetSpendsAll(t *testing.T) {
	rng := core.NewRandom(11)
	var set CrawlerSet
	for i := 0; i < 5; i++ {
		set.Add(rng.Direction(), rng.Direction(), 0.5, 0.01, 8, uint32(10+i), 0.01)
	}
	if set.Len() != 5 {
		t.Fatalf("Len = %d, want 5", set.Len())
	}

	cube := cubemap.NewImageCube(16, 4)
	set.Carve(cube, DyeCarve, 0.01, rng)
	for i, c := range set.crawlers {
		if !c.Spent() {
			t.Errorf("crawler %d not spent", i)
		}
	}
}
