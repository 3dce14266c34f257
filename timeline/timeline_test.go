package timeline

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/core"
)

func withPolicy(t *testing.T, p core.Policy) {
	t.Helper()
	old := core.CurrentPolicy()
	core.SetPolicy(p)
	t.Cleanup(func() { core.SetPolicy(old) })
}

// twoScenes is a 1000 ms space shot followed by a 500 ms clouds shot and another 2000 ms space shot
func twoScenes() []int {
	var b trackBuilder
	b.shot(SceneSpace, 1000,
		[2]knot{{0, 0, 0}, {1000, 0, 0}},
		[2]knot{{0, 0, 10}, {1000, 0, 10}},
		[2]knot{{0, 1, 0}, {0, 1, 0}})
	b.shot(SceneClouds, 500,
		[2]knot{{5, 5, 5}, {5, 5, 5}},
		[2]knot{{5, 5, 6}, {5, 5, 6}},
		[2]knot{{0, 1, 0}, {0, 1, 0}})
	b.shot(SceneSpace, 2000,
		[2]knot{{0, 0, 0}, {0, 2000, 0}},
		[2]knot{{1, 0, 0}, {1, 2000, 0}},
		[2]knot{{0, 0, 1}, {0, 0, 1}})
	return b.end()
}

func TestParse(t *testing.T) {
	tl, err := Parse(twoScenes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len(tl.Scenes()); got != 3 {
		t.Fatalf("parsed %d scenes, want 3", got)
	}
	if got := tl.Length(); got != 3500 {
		t.Errorf("Length = %d, want 3500", got)
	}
	s := tl.Scenes()[1]
	if s.Kind != SceneClouds || s.Mode != Linear || s.Duration != 500 {
		t.Errorf("second scene = %+v", s)
	}
}

func TestParseErrors(t *testing.T) {
	good := twoScenes()
	tests := []struct {
		name  string
		track []int
	}{
		{"empty", nil},
		{"missing final terminator", good[:len(good)-4]},
		{"truncated header", []int{int(SceneSpace), 1}},
		{"truncated segment", good[:10]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.track); !errors.Is(err, core.ErrBadTrack) {
				t.Errorf("Parse error = %v, want ErrBadTrack", err)
			}
		})
	}
}

func TestParseInvalidMode(t *testing.T) {
	track := twoScenes()
	track[1] = -1

	withPolicy(t, core.Strict)
	if _, err := Parse(track); !errors.Is(err, core.ErrInvariant) {
		t.Errorf("strict Parse error = %v, want invariant violation", err)
	}

	core.SetPolicy(core.Lenient)
	tl, err := Parse(track)
	if err != nil {
		t.Fatalf("lenient Parse: %v", err)
	}
	if tl.Scenes()[0].Mode != Bezier {
		t.Errorf("unknown mode should fall back to bezier")
	}
}

func TestResolveSceneBoundary(t *testing.T) {
	tl, err := Parse(twoScenes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tests := []struct {
		stamp     int
		scene     SceneKind
		sceneTime int
	}{
		{0, SceneSpace, 0},
		{999, SceneSpace, 999},
		{1000, SceneClouds, 0},
		{1499, SceneClouds, 499},
		{1500, SceneSpace, 1000},
		{3499, SceneSpace, 2999},
	}
	for _, tc := range tests {
		f, err := tl.Resolve(tc.stamp)
		if err != nil {
			t.Fatalf("Resolve(%d): %v", tc.stamp, err)
		}
		if f.Scene != tc.scene || f.SceneTime != tc.sceneTime {
			t.Errorf("Resolve(%d) = %s at %d, want %s at %d", tc.stamp, f.Scene, f.SceneTime, tc.scene, tc.sceneTime)
		}
	}
}

func TestResolveLinear(t *testing.T) {
	tl, err := Parse(twoScenes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f, err := tl.Resolve(250)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !f.Position.ApproxEqualThreshold(mgl32.Vec3{250, 0, 0}, 1e-3) {
		t.Errorf("position = %v", f.Position)
	}
	if !f.Eye.ApproxEqualThreshold(mgl32.Vec3{250, 0, 10}, 1e-3) {
		t.Errorf("eye = %v", f.Eye)
	}
	if !f.Forward.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-3) {
		t.Errorf("forward = %v", f.Forward)
	}
	if f.Up != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("up = %v", f.Up)
	}
}

func TestResolveOverrun(t *testing.T) {
	tl, err := Parse(twoScenes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	withPolicy(t, core.Lenient)
	for _, stamp := range []int{3500, 100000, -1} {
		f, err := tl.Resolve(stamp)
		if err != nil {
			t.Errorf("lenient Resolve(%d): %v", stamp, err)
		}
		if f != (Frame{}) {
			t.Errorf("lenient Resolve(%d) = %+v, want zero frame", stamp, f)
		}
	}

	core.SetPolicy(core.Strict)
	if _, err := tl.Resolve(3500); !errors.Is(err, core.ErrTimelineOverrun) {
		t.Errorf("strict Resolve past the end = %v, want ErrTimelineOverrun", err)
	}
}

func TestResolveBeforeStart(t *testing.T) {
	tl, err := Parse(twoScenes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := tl.Scenes()[0]
	backwards, err := first.Position(-500)
	if err != nil {
		t.Fatalf("Position(-500): %v", err)
	}

	withPolicy(t, core.Strict)
	if _, err := tl.Resolve(-500); !errors.Is(err, core.ErrTimelineOverrun) {
		t.Errorf("strict Resolve(-500) = %v, want ErrTimelineOverrun", err)
	}

	core.SetPolicy(core.Lenient)
	f, err := tl.Resolve(-500)
	if err != nil {
		t.Fatalf("lenient Resolve(-500): %v", err)
	}
	if f.Scene != SceneNone || f.Position != (mgl32.Vec3{}) {
		t.Errorf("lenient Resolve(-500) = %+v, want zero frame", f)
	}
	if backwards != (mgl32.Vec3{}) && f.Position == backwards {
		t.Errorf("negative stamp extrapolated the first scene to %v", backwards)
	}
}

func TestSplineBezier(t *testing.T) {
	s := NewSpline(Bezier)
	knots := []mgl32.Vec3{{0, 0, 0}, {100, 0, 0}, {100, 100, 0}}
	for _, k := range knots {
		if err := s.AddPoint(k, 1000); err != nil {
			t.Fatalf("AddPoint: %v", err)
		}
	}
	s.Precalculate()

	tests := []struct {
		stamp float32
		want  mgl32.Vec3
	}{
		{0, knots[0]},
		{1000, knots[1]},
		{2000, knots[2]},
		{5000, knots[2]},
	}
	for _, tc := range tests {
		got, err := s.Resolve(tc.stamp)
		if err != nil {
			t.Fatalf("Resolve(%v): %v", tc.stamp, err)
		}
		if !got.ApproxEqualThreshold(tc.want, 1e-3) {
			t.Errorf("Resolve(%v) = %v, want %v", tc.stamp, got, tc.want)
		}
	}

	// The middle knot's tangent runs along the neighbours' difference
	mid := s.points[1]
	dir := core.Normalize(mid.Next.Sub(mid.Pos))
	if !dir.ApproxEqualThreshold(core.Normalize(mgl32.Vec3{100, 100, 0}), 1e-5) {
		t.Errorf("middle tangent = %v", dir)
	}
	if l := mid.Next.Sub(mid.Pos).Len(); l < 9.99 || l > 10.01 {
		t.Errorf("middle tangent length = %v, want 10", l)
	}
}

func TestSplinePolicy(t *testing.T) {
	withPolicy(t, core.Strict)
	if _, err := NewSpline(Linear).Resolve(0); !errors.Is(err, core.ErrEmptySpline) {
		t.Errorf("strict empty Resolve = %v, want ErrEmptySpline", err)
	}
	if err := NewSpline(Linear).AddPoint(mgl32.Vec3{}, -1); !errors.Is(err, core.ErrNegativeTimestamp) {
		t.Errorf("strict negative duration = %v, want ErrNegativeTimestamp", err)
	}

	core.SetPolicy(core.Lenient)
	v, err := NewSpline(Linear).Resolve(0)
	if err != nil || v != (mgl32.Vec3{}) {
		t.Errorf("lenient empty Resolve = %v, %v", v, err)
	}
}

func TestDemoTrack(t *testing.T) {
	tl, err := Demo()
	if err != nil {
		t.Fatalf("Demo: %v", err)
	}
	scenes := tl.Scenes()
	if len(scenes) != 41 {
		t.Fatalf("demo has %d scenes, want 41", len(scenes))
	}

	sum := 0
	kinds := map[SceneKind]bool{}
	for _, s := range scenes {
		sum += s.Duration
		kinds[s.Kind] = true
	}
	if tl.Length() != sum {
		t.Errorf("Length = %d, scene sum = %d", tl.Length(), sum)
	}
	for n := 1; n <= 15; n++ {
		if !kinds[HuygensSketch(n)] {
			t.Errorf("missing %s", HuygensSketch(n))
		}
	}

	f, err := tl.Resolve(SplitSceneStart)
	if err != nil {
		t.Fatalf("Resolve(SplitSceneStart): %v", err)
	}
	if f.Scene != SceneSpace {
		t.Errorf("split scene = %s, want space", f.Scene)
	}
	if f.Position != (mgl32.Vec3{-77279, 410, 95400}) {
		t.Errorf("split scene starts at %v", f.Position)
	}

	last, err := tl.Resolve(tl.Length() - 1)
	if err != nil || last.Scene != SceneHuygensSketch15 {
		t.Errorf("last frame = %s, %v", last.Scene, err)
	}
}

func TestSceneKindString(t *testing.T) {
	tests := []struct {
		kind SceneKind
		want string
	}{
		{SceneNone, "none"},
		{SceneHuygensSketch01, "huygens-sketch-01"},
		{SceneHuygensSketch15, "huygens-sketch-15"},
		{SceneEnceladus, "enceladus"},
		{SceneKind(99), "scene(99)"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
