// Package rendering hosts the optional raylib viewer. The window itself needs the
// raylib build tag; camera and texture bookkeeping build everywhere.
package rendering

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/compositor"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

// ErrUnavailable is returned by the viewer in builds without the raylib tag
var ErrUnavailable = errors.New("viewer requires building with the 'raylib' tag")

// worldScale maps track units to viewer units
const worldScale = 1.0 / 1000

// Camera shake multipliers applied to the distort table offsets
const (
	sketchShake      = 0.000004
	cloudsShake      = 0.006
	cloudsShakeStart = 14000
	cloudsShakeCalm  = 27000
)

// Source is the producer side of the precompute handoff
type Source interface {
	Results() <-chan precompute.Result
	Release()
	Done() bool
	Assets() *precompute.Assets
}

// Camera is the viewer camera in scaled world units
type Camera struct {
	Scene    timeline.SceneKind
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

// CameraAt resolves the track at ms and converts it for the viewer.
// The track loops, so ms may exceed the track length. A non-nil shake adds the
// hand-held offsets of the sketch and cloud scenes.
func CameraAt(tl *timeline.Timeline, shake *compositor.DistortTable, ms int) (Camera, error) {
	length := tl.Length()
	if length <= 0 {
		return Camera{}, errors.New("empty camera track")
	}
	ticks := ms % length
	f, err := tl.Resolve(ticks)
	if err != nil {
		return Camera{}, err
	}
	if shake != nil && ticks < shake.Len() {
		applyShake(&f, shake.Offset(ticks))
	}
	up := core.Normalize(f.Up)
	if up == (mgl32.Vec3{}) {
		up = mgl32.Vec3{0, 1, 0}
	}
	return Camera{
		Scene:    f.Scene,
		Position: f.Position.Mul(worldScale),
		Target:   f.Eye.Mul(worldScale),
		Up:       up,
	}, nil
}

// applyShake moves the whole view sideways in the sketches and only the look
// direction in the clouds, where it calms down late in the scene
func applyShake(f *timeline.Frame, offset mgl32.Vec3) {
	switch {
	case f.Scene >= timeline.SceneHuygensSketch01 && f.Scene <= timeline.SceneHuygensSketch15:
		d := mgl32.Vec3{offset[0], offset[1], 0}.Mul(sketchShake)
		f.Position = f.Position.Add(d)
		f.Eye = f.Eye.Add(d)
	case f.Scene == timeline.SceneClouds && f.SceneTime >= cloudsShakeStart:
		d := offset.Mul(cloudsShake)
		if f.SceneTime > cloudsShakeCalm {
			d = d.Mul(0.3)
		}
		f.Eye = f.Eye.Add(d)
		f.Forward = f.Forward.Add(d)
	}
}

// Thumbnail is one 2D raster of a result, labeled for display
type Thumbnail struct {
	Label string
	Image *raster.Image2D
}

// Thumbnails lists the displayable rasters of a result; volumes yield none
func Thumbnails(r precompute.Result) []Thumbnail {
	switch {
	case r.Cube != nil:
		out := make([]Thumbnail, 0, cubemap.FaceCount)
		for _, f := range cubemap.Faces {
			out = append(out, Thumbnail{Label: r.Name + " " + f.String(), Image: r.Cube.Side(f)})
		}
		return out
	case r.Image != nil:
		return []Thumbnail{{Label: r.Name, Image: r.Image}}
	}
	return nil
}
