package timeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// SceneKind identifies which renderer program a scene drives
type SceneKind int

const (
	SceneNone SceneKind = iota
	SceneHuygensSketch01
	SceneHuygensSketch02
	SceneHuygensSketch03
	SceneHuygensSketch04
	SceneHuygensSketch05
	SceneHuygensSketch06
	SceneHuygensSketch07
	SceneHuygensSketch08
	SceneHuygensSketch09
	SceneHuygensSketch10
	SceneHuygensSketch11
	SceneHuygensSketch12
	SceneHuygensSketch13
	SceneHuygensSketch14
	SceneHuygensSketch15
	SceneSpace
	SceneSimple
	SceneEnceladus
	SceneClouds
)

func (k SceneKind) String() string {
	switch {
	case k == SceneNone:
		return "none"
	case k >= SceneHuygensSketch01 && k <= SceneHuygensSketch15:
		return fmt.Sprintf("huygens-sketch-%02d", int(k-SceneHuygensSketch01)+1)
	case k == SceneSpace:
		return "space"
	case k == SceneSimple:
		return "simple"
	case k == SceneEnceladus:
		return "enceladus"
	case k == SceneClouds:
		return "clouds"
	}
	return fmt.Sprintf("scene(%d)", int(k))
}

// HuygensSketch returns the kind of the n'th sketch, counting from 1
func HuygensSketch(n int) SceneKind {
	return SceneHuygensSketch01 + SceneKind(n-1)
}

// Scene is one timed segment of the camera path with its own spline triple
type Scene struct {
	Kind     SceneKind
	Mode     Mode
	Offset   int
	Duration int

	position *Spline
	eye      *Spline
	up       *Spline
}

// parseScene reads a scene header and its three spline segments from data.
// It returns the scene and the number of ints consumed.
func parseScene(data []int) (*Scene, int, error) {
	if len(data) < headerLen {
		return nil, 0, fmt.Errorf("scene header: %w", core.ErrBadTrack)
	}
	s := &Scene{
		Kind:     SceneKind(data[0]),
		Offset:   data[2],
		Duration: data[3],
	}
	if data[1] < 0 {
		if err := core.Fail(core.ErrBadTrack, "timeline.parseScene", "invalid scene settings: mode %d", data[1]); err != nil {
			return nil, 0, err
		}
	}
	s.Mode = Mode(data[1])
	if s.Mode != Linear {
		s.Mode = Bezier
	}

	pos := headerLen
	splines := [3]**Spline{&s.position, &s.eye, &s.up}
	for _, dst := range splines {
		sp := NewSpline(s.Mode)
		n, err := sp.ReadData(data[pos:])
		if err != nil {
			return nil, 0, fmt.Errorf("%s scene: %w", s.Kind, err)
		}
		*dst = sp
		pos += n
	}
	return s, pos, nil
}

// Position resolves the camera position at stamp milliseconds into the scene
func (s *Scene) Position(stamp float32) (mgl32.Vec3, error) {
	return s.position.Resolve(stamp + float32(s.Offset))
}

// Eye resolves the look-at point at stamp milliseconds into the scene
func (s *Scene) Eye(stamp float32) (mgl32.Vec3, error) {
	return s.eye.Resolve(stamp + float32(s.Offset))
}

// Up resolves the up vector at stamp milliseconds into the scene
func (s *Scene) Up(stamp float32) (mgl32.Vec3, error) {
	return s.up.Resolve(stamp + float32(s.Offset))
}
