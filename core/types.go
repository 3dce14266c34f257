package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Normalize returns v scaled to unit length, or the zero vector if v has no length
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	length := v.Len()
	if length == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / length)
}

// Normalize2 is the two-component version of Normalize
func Normalize2(v mgl32.Vec2) mgl32.Vec2 {
	length := v.Len()
	if length == 0 {
		return mgl32.Vec2{}
	}
	return v.Mul(1 / length)
}

// Mix linearly interpolates between a and b
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// MixVec3 linearly interpolates between two vectors
func MixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// SmoothStep is the GLSL smoothstep; edge0 may be greater than edge1 for a falling step.
// Coincident edges degrade to a hard step at the edge.
func SmoothStep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// SmoothMix interpolates with a smoothstep-shaped ratio
func SmoothMix(a, b, t float32) float32 {
	return Mix(a, b, SmoothStep(0, 1, t))
}

// MaxVec3 is the component-wise maximum of two vectors
func MaxVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		max(a[0], b[0]),
		max(a[1], b[1]),
		max(a[2], b[2]),
	}
}

// Abs32 returns |x|
func Abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

// Sqrt32 returns the square root of x
func Sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Sin32, Cos32, Tanh32 and Asin32 are float32 shorthands over package math
func Sin32(x float32) float32  { return float32(math.Sin(float64(x))) }
func Cos32(x float32) float32  { return float32(math.Cos(float64(x))) }
func Tanh32(x float32) float32 { return float32(math.Tanh(float64(x))) }
func Asin32(x float32) float32 { return float32(math.Asin(float64(x))) }

// Luma is the Rec. 709 luminance of an RGB triple
func Luma(r, g, b float32) float32 {
	return r*0.2126 + g*0.7152 + b*0.0722
}
