package stars

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
)

// Subdivisions is the grid resolution along each axis of a face
const Subdivisions = 64

// Side holds the stars of one cube face in a Subdivisions×Subdivisions grid
type Side struct {
	face  cubemap.Face
	cells [][]Location
	count int
}

// NewSide creates an empty side for face
func NewSide(face cubemap.Face) *Side {
	return &Side{
		face:  face,
		cells: make([][]Location, Subdivisions*Subdivisions),
	}
}

// Face returns the face this side covers
func (s *Side) Face() cubemap.Face {
	return s.face
}

// Len returns the number of stars on this side
func (s *Side) Len() int {
	return s.count
}

// Add files a star under the cell of its mapped direction
func (s *Side) Add(star Location) {
	ix, iy := s.cell(star.Mapped)
	idx := iy*Subdivisions + ix
	s.cells[idx] = append(s.cells[idx], star)
	s.count++
}

// Luminosity sums the stars in the 3×3 window around the cell of mapped
func (s *Side) Luminosity(dir, mapped mgl32.Vec3) float32 {
	ix, iy := s.cell(mapped)
	var luminosity float32
	for jj := max(iy-1, 0); jj <= min(iy+1, Subdivisions-1); jj++ {
		row := jj * Subdivisions
		for ii := max(ix-1, 0); ii <= min(ix+1, Subdivisions-1); ii++ {
			for _, star := range s.cells[row+ii] {
				luminosity += star.Contribution(dir)
			}
		}
	}
	return luminosity
}

// cell picks the two mapped components spanning this face and converts them to grid indices
func (s *Side) cell(mapped mgl32.Vec3) (int, int) {
	switch s.face {
	case cubemap.NegX, cubemap.PosX:
		return subdivision(mapped[2]), subdivision(mapped[1])
	case cubemap.NegY, cubemap.PosY:
		return subdivision(mapped[0]), subdivision(mapped[2])
	}
	return subdivision(mapped[0]), subdivision(mapped[1])
}

// subdivision maps a coordinate in [-1, 1] to a grid index. +1 lands in the last cell.
func subdivision(coord float32) int {
	if !core.Check(coord >= -1 && coord <= 1, "stars.subdivision", "coordinate %v not in mappable subdivision range", coord) {
		coord = mgl32.Clamp(coord, -1, 1)
	}
	return min(int((coord+1)*0.5*Subdivisions), Subdivisions-1)
}
