package timeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

// Frame is the camera state at one instant
type Frame struct {
	Scene SceneKind
	// SceneTime counts milliseconds spent in this kind of scene, including earlier segments of the same kind
	SceneTime int
	Position  mgl32.Vec3
	Eye       mgl32.Vec3
	Forward   mgl32.Vec3
	Up        mgl32.Vec3
}

// Timeline is the ordered scene list of a camera track
type Timeline struct {
	scenes []*Scene
}

// Parse builds a timeline from an integer track table. The table is a run of
// scene blocks closed by an all-zero record.
func Parse(track []int) (*Timeline, error) {
	t := &Timeline{}
	pos := 0
	for {
		if pos+recordLen > len(track) {
			return nil, fmt.Errorf("track missing terminator after %d scenes: %w", len(t.scenes), core.ErrBadTrack)
		}
		rec := track[pos : pos+recordLen]
		if rec[0] == 0 && rec[1] == 0 && rec[2] == 0 && rec[3] == 0 {
			break
		}
		s, n, err := parseScene(track[pos:])
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", len(t.scenes), err)
		}
		t.scenes = append(t.scenes, s)
		pos += n
	}
	return t, nil
}

// Scenes returns the scene list in playback order
func (t *Timeline) Scenes() []*Scene {
	return t.scenes
}

// Length returns the total duration in milliseconds
func (t *Timeline) Length() int {
	total := 0
	for _, s := range t.scenes {
		total += s.Duration
	}
	return total
}

// Resolve returns the camera frame at stamp milliseconds from the start of the track.
// A scene owns [start, start+duration). Outside the track the lenient policy answers a zero frame.
// Stamps before zero are outside the track too; the first scene is not run backwards.
func (t *Timeline) Resolve(stamp int) (Frame, error) {
	if stamp < 0 {
		return Frame{}, core.Fail(core.ErrTimelineOverrun, "timeline.Timeline.Resolve", "negative timestamp %d", stamp)
	}
	remaining := stamp
	for ii, s := range t.scenes {
		if s.Duration <= remaining {
			remaining -= s.Duration
			continue
		}

		local := float32(remaining)
		pos, err := s.Position(local)
		if err != nil {
			return Frame{}, err
		}
		eye, err := s.Eye(local)
		if err != nil {
			return Frame{}, err
		}
		up, err := s.Up(local)
		if err != nil {
			return Frame{}, err
		}

		total := remaining
		for _, earlier := range t.scenes[:ii] {
			if earlier.Kind == s.Kind {
				total += earlier.Duration
			}
		}
		return Frame{
			Scene:     s.Kind,
			SceneTime: total,
			Position:  pos,
			Eye:       eye,
			Forward:   eye.Sub(pos),
			Up:        up,
		}, nil
	}

	return Frame{}, core.Fail(core.ErrTimelineOverrun, "timeline.Timeline.Resolve",
		"timestamp %d outside boundary %d", stamp, t.Length())
}
