// Package cubemap maps directions on the unit sphere to texels on the six
// faces of a cube map and back.
package cubemap

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// Face identifies one side of a cube map
type Face int

const (
	NegX Face = iota
	PosX
	NegY
	PosY
	NegZ
	PosZ
)

// FaceCount is the number of sides on a cube
const FaceCount = 6

// Faces lists every face in storage order
var Faces = [FaceCount]Face{NegX, PosX, NegY, PosY, NegZ, PosZ}

var faceNames = [FaceCount]string{"-x", "+x", "-y", "+y", "-z", "+z"}

func (f Face) String() string {
	if f < 0 || int(f) >= FaceCount {
		return fmt.Sprintf("face(%d)", int(f))
	}
	return faceNames[f]
}

// Texel addresses one texel on one face
type Texel struct {
	Face Face
	X, Y int
}

// Locate returns the face and texel a direction projects onto for faces of size×size texels.
// The direction need not be normalized. The dominant axis picks the face (ties go X, then Y,
// then Z) and the other two components are divided by it; +0.5 rounds to the nearest texel.
func Locate(dir mgl32.Vec3, size int) Texel {
	ax := core.Abs32(dir[0])
	ay := core.Abs32(dir[1])
	az := core.Abs32(dir[2])
	span := float32(size - 1)

	if !core.Check(ax != 0 || ay != 0 || az != 0, "cubemap.Locate", "invalid direction vector %v", dir) {
		return Texel{Face: PosZ, X: size / 2, Y: size / 2}
	}

	texel := func(face Face, u, v float32) Texel {
		x := int(u*span + 0.5)
		y := int(v*span + 0.5)
		return Texel{Face: face, X: clampIndex(x, size), Y: clampIndex(y, size)}
	}

	switch core.DominantAxis(dir) {
	case core.AxisX:
		fy := dir[1]/ax*0.5 + 0.5
		fz := dir[2]/ax*0.5 + 0.5
		if dir[0] < 0 {
			return texel(NegX, fz, 1-fy)
		}
		return texel(PosX, 1-fz, 1-fy)
	case core.AxisY:
		fx := dir[0]/ay*0.5 + 0.5
		fz := dir[2]/ay*0.5 + 0.5
		if dir[1] < 0 {
			return texel(NegY, fx, 1-fz)
		}
		return texel(PosY, fx, fz)
	}

	fx := dir[0]/az*0.5 + 0.5
	fy := dir[1]/az*0.5 + 0.5
	if dir[2] < 0 {
		return texel(NegZ, 1-fx, 1-fy)
	}
	return texel(PosZ, fx, 1-fy)
}

// TexelDirection returns a direction through the center of a texel.
// The result lies on the cube surface and is not unit length.
func TexelDirection(face Face, x, y, size int) mgl32.Vec3 {
	fi, fj := float32(1), float32(1)
	if size > 1 {
		scale := 2 / float32(size-1)
		fi = float32(x) * scale
		fj = float32(y) * scale
	}
	return faceDirection(face, fi, fj)
}

// faceDirection maps face coordinates in [0, 2] to a point on the cube
func faceDirection(face Face, fi, fj float32) mgl32.Vec3 {
	switch face {
	case NegX:
		return mgl32.Vec3{-1, 1 - fj, -1 + fi}
	case PosX:
		return mgl32.Vec3{1, 1 - fj, 1 - fi}
	case NegY:
		return mgl32.Vec3{-1 + fi, -1, 1 - fj}
	case PosY:
		return mgl32.Vec3{-1 + fi, 1, -1 + fj}
	case NegZ:
		return mgl32.Vec3{1 - fi, 1 - fj, -1}
	}
	return mgl32.Vec3{-1 + fi, 1 - fj, 1}
}

func clampIndex(i, size int) int {
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
