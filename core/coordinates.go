package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis identifies the dominant component of a direction
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// DominantAxis returns the axis with the largest magnitude.
// Ties resolve in X, Y, Z order so that generation and sampling agree on seam texels.
func DominantAxis(dir mgl32.Vec3) Axis {
	ax := Abs32(dir[0])
	ay := Abs32(dir[1])
	az := Abs32(dir[2])

	if ax >= ay && ax >= az {
		return AxisX
	}
	if ay >= ax && ay >= az {
		return AxisY
	}
	return AxisZ
}

// CubeMapped projects dir onto the surface of the [-1, 1] cube.
// The dominant component becomes exactly -1 or 1, the others are divided by its magnitude.
func CubeMapped(dir mgl32.Vec3) mgl32.Vec3 {
	sign := func(v float32) float32 {
		if v >= 0 {
			return 1
		}
		return -1
	}

	switch DominantAxis(dir) {
	case AxisX:
		mag := Abs32(dir[0])
		return mgl32.Vec3{sign(dir[0]), dir[1] / mag, dir[2] / mag}
	case AxisY:
		mag := Abs32(dir[1])
		return mgl32.Vec3{dir[0] / mag, sign(dir[1]), dir[2] / mag}
	}
	mag := Abs32(dir[2])
	return mgl32.Vec3{dir[0] / mag, dir[1] / mag, sign(dir[2])}
}

// Congruence returns val modulo divisor in [0, divisor) for a positive divisor.
// Negative values wrap from the top so that -0.25 mod 1 is 0.75.
func Congruence(val, divisor float32) float32 {
	if val >= 0 {
		return float32(math.Mod(float64(val), float64(divisor)))
	}
	return divisor - float32(math.Mod(float64(-val), float64(divisor)))
}
