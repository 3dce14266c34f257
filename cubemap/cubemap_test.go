package cubemap

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

func TestTexelRoundTrip(t *testing.T) {
	const size = 16
	for _, f := range Faces {
		t.Run(f.String(), func(t *testing.T) {
			// Border texels are shared with the neighbouring face, so only interior ones round-trip exactly.
			for y := 1; y < size-1; y++ {
				for x := 1; x < size-1; x++ {
					got := Locate(TexelDirection(f, x, y, size), size)
					want := Texel{Face: f, X: x, Y: y}
					if got != want {
						t.Fatalf("texel %+v mapped back to %+v", want, got)
					}
				}
			}
		})
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	const size = 64
	rng := core.NewRandom(7)
	for i := 0; i < 2000; i++ {
		dir := rng.Direction()
		texel := Locate(dir, size)
		back := core.Normalize(TexelDirection(texel.Face, texel.X, texel.Y, size))
		if cos := back.Dot(dir); cos <= 0.999 {
			t.Fatalf("direction %v came back as %v (cos %v)", dir, back, cos)
		}
	}
}

func TestLocateFaceSelection(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl32.Vec3
		want Face
	}{
		{"negative x", mgl32.Vec3{-3, 1, 2}, NegX},
		{"positive x", mgl32.Vec3{0.9, 0.1, -0.2}, PosX},
		{"negative y", mgl32.Vec3{0.1, -0.5, 0.2}, NegY},
		{"positive y", mgl32.Vec3{0, 2, 0}, PosY},
		{"negative z", mgl32.Vec3{0.3, 0.3, -0.31}, NegZ},
		{"positive z", mgl32.Vec3{0, 0, 1}, PosZ},
		{"x wins tie with y", mgl32.Vec3{1, 1, 0}, PosX},
		{"x wins tie with z", mgl32.Vec3{-1, 0, 1}, NegX},
		{"y wins tie with z", mgl32.Vec3{0, -1, 1}, NegY},
		{"x wins three-way tie", mgl32.Vec3{-1, -1, -1}, NegX},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Locate(tc.dir, 32).Face; got != tc.want {
				t.Errorf("Locate(%v) face = %s, want %s", tc.dir, got, tc.want)
			}
		})
	}
}

func TestLocateZeroDirection(t *testing.T) {
	defer core.SetPolicy(core.CurrentPolicy())

	core.SetPolicy(core.Lenient)
	if got := Locate(mgl32.Vec3{}, 8); got != (Texel{Face: PosZ, X: 4, Y: 4}) {
		t.Errorf("lenient Locate of zero vector = %+v", got)
	}

	core.SetPolicy(core.Strict)
	defer func() {
		if _, ok := recover().(*core.InvariantError); !ok {
			t.Errorf("strict Locate of zero vector did not panic with InvariantError")
		}
	}()
	Locate(mgl32.Vec3{}, 8)
}

func TestTexelDirectionFaceCenters(t *testing.T) {
	want := map[Face]mgl32.Vec3{
		NegX: {-1, 0, 0},
		PosX: {1, 0, 0},
		NegY: {0, -1, 0},
		PosY: {0, 1, 0},
		NegZ: {0, 0, -1},
		PosZ: {0, 0, 1},
	}
	for f, w := range want {
		if got := TexelDirection(f, 2, 2, 5); !got.ApproxEqual(w) {
			t.Errorf("center of %s = %v, want %v", f, got, w)
		}
	}
}

func TestNormalizeSidesIsJoint(t *testing.T) {
	cube := NewImageCube(4, 1)
	cube.SetValue(Texel{Face: PosZ, X: 1, Y: 1}, 0, 10)
	cube.SetValue(Texel{Face: NegY, X: 2, Y: 3}, 0, -10)

	cube.NormalizeSides(0, 0)

	if got := cube.Value(Texel{Face: PosZ, X: 1, Y: 1}, 0); got != 1 {
		t.Errorf("global maximum = %v, want 1", got)
	}
	if got := cube.Value(Texel{Face: NegY, X: 2, Y: 3}, 0); got != 0 {
		t.Errorf("global minimum = %v, want 0", got)
	}
	// A face holding only zeros must land in the middle of the joint range, not be stretched on its own.
	if got := cube.Value(Texel{Face: NegX, X: 0, Y: 0}, 0); got != 0.5 {
		t.Errorf("untouched face = %v, want 0.5", got)
	}
}

func TestCalculateDistributed(t *testing.T) {
	cube := NewImageCube(9, 3)
	err := cube.CalculateDistributed(func(norm, dir mgl32.Vec3, x, y int, side *raster.Image2D) {
		side.SetPixel(x, y, norm[0], norm[1], norm[2])
	})
	if err != nil {
		t.Fatalf("CalculateDistributed: %v", err)
	}

	for _, f := range Faces {
		for y := 1; y < 8; y++ {
			for x := 1; x < 8; x++ {
				texel := Texel{Face: f, X: x, Y: y}
				norm := mgl32.Vec3{cube.Value(texel, 0), cube.Value(texel, 1), cube.Value(texel, 2)}
				if got := cube.Locate(norm); got != texel {
					t.Fatalf("texel %+v holds direction %v which locates to %+v", texel, norm, got)
				}
			}
		}
	}
}

func TestCalculateDistributedStrictViolation(t *testing.T) {
	defer core.SetPolicy(core.CurrentPolicy())
	core.SetPolicy(core.Strict)

	cube := NewImageCube(2, 1)
	err := cube.CalculateDistributed(func(norm, dir mgl32.Vec3, x, y int, side *raster.Image2D) {
		core.Check(false, "test", "always fails")
	})
	if !errors.Is(err, core.ErrInvariant) {
		t.Errorf("error = %v, want ErrInvariant", err)
	}
}

func TestNewCubeRejectsMismatchedFaces(t *testing.T) {
	var sides [FaceCount]*raster.Image2D
	for i := range sides {
		sides[i] = raster.NewImage2D(4, 4, 1)
	}
	if _, err := NewCube(sides); err != nil {
		t.Fatalf("NewCube: %v", err)
	}
	sides[PosY] = raster.NewImage2D(4, 3, 1)
	if _, err := NewCube(sides); err == nil {
		t.Errorf("expected error for non-square face")
	}
}
