// Package timeline resolves the demo camera path: a list of timed scenes,
// each carrying position, eye and up splines parsed from an integer track table.
package timeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// recordLen is the number of ints in one track record: x, y, z, duration
const recordLen = 4

// headerLen is the scene header: kind, mode, offset, duration
const headerLen = 4

// Mode selects spline interpolation
type Mode int

const (
	Bezier Mode = iota
	Linear
)

func (m Mode) String() string {
	if m == Linear {
		return "linear"
	}
	return "bezier"
}

// Point is a spline knot. Prev and Next are the Bezier control points around it.
type Point struct {
	Pos      mgl32.Vec3
	Prev     mgl32.Vec3
	Next     mgl32.Vec3
	Duration float32
}

// Spline is an ordered list of knots, each owning the segment that leaves it
type Spline struct {
	mode   Mode
	points []Point
}

// NewSpline creates an empty spline
func NewSpline(mode Mode) *Spline {
	return &Spline{mode: mode}
}

// Mode returns the interpolation mode
func (s *Spline) Mode() Mode {
	return s.mode
}

// Len returns the number of knots
func (s *Spline) Len() int {
	return len(s.points)
}

// Duration returns the sum of all segment durations
func (s *Spline) Duration() float32 {
	var total float32
	for _, p := range s.points {
		total += p.Duration
	}
	return total
}

// AddPoint appends a knot. Control points are not refreshed until Precalculate.
func (s *Spline) AddPoint(pos mgl32.Vec3, duration float32) error {
	if duration < 0 {
		if err := core.Fail(core.ErrNegativeTimestamp, "timeline.Spline.AddPoint", "negative duration %v", duration); err != nil {
			return err
		}
	}
	s.points = append(s.points, Point{Pos: pos, Prev: pos, Next: pos, Duration: duration})
	return nil
}

// ReadData appends knots from 4-int records up to and including an all-zero terminator
// and precalculates the control points. It returns the number of ints consumed.
func (s *Spline) ReadData(data []int) (int, error) {
	pos := 0
	for {
		if pos+recordLen > len(data) {
			return 0, fmt.Errorf("spline segment missing terminator at %d: %w", pos, core.ErrBadTrack)
		}
		rec := data[pos : pos+recordLen]
		pos += recordLen
		if rec[0] == 0 && rec[1] == 0 && rec[2] == 0 && rec[3] == 0 {
			break
		}
		if err := s.AddPoint(mgl32.Vec3{float32(rec[0]), float32(rec[1]), float32(rec[2])}, float32(rec[3])); err != nil {
			return 0, err
		}
	}
	s.Precalculate()
	return pos, nil
}

// Precalculate derives the Bezier control points of every knot.
// The tangent follows the neighbours' difference and its length is the square root
// of the distance to the neighbour on that side.
func (s *Spline) Precalculate() {
	last := len(s.points) - 1
	for ii := range s.points {
		cur := s.points[ii].Pos
		prev := s.points[max(ii-1, 0)].Pos
		next := s.points[min(ii+1, last)].Pos

		s.points[ii].Prev = core.Normalize(prev.Sub(next)).Mul(core.Sqrt32(prev.Sub(cur).Len())).Add(cur)
		s.points[ii].Next = core.Normalize(next.Sub(prev)).Mul(core.Sqrt32(next.Sub(cur).Len())).Add(cur)
	}
}

// Resolve evaluates the spline at stamp milliseconds. Past the end it holds the last knot.
func (s *Spline) Resolve(stamp float32) (mgl32.Vec3, error) {
	if len(s.points) == 0 {
		return mgl32.Vec3{}, core.Fail(core.ErrEmptySpline, "timeline.Spline.Resolve", "resolving empty spline")
	}

	last := len(s.points) - 1
	var cur float32
	for ii, p := range s.points {
		seg := p.Duration
		if seg > 0 && cur+seg > stamp {
			interp := (stamp - cur) / seg
			q := s.points[min(ii+1, last)]
			if s.mode == Linear {
				return core.MixVec3(p.Pos, q.Pos, interp), nil
			}
			return bezier(p.Pos, p.Next, q.Prev, q.Pos, interp), nil
		}
		cur += seg
	}
	return s.points[last].Pos, nil
}

// bezier evaluates a cubic curve with de Casteljau's construction
func bezier(p0, p1, p2, p3 mgl32.Vec3, t float32) mgl32.Vec3 {
	a := core.MixVec3(p0, p1, t)
	b := core.MixVec3(p1, p2, t)
	c := core.MixVec3(p2, p3, t)
	d := core.MixVec3(a, b, t)
	e := core.MixVec3(b, c, t)
	return core.MixVec3(d, e, t)
}
