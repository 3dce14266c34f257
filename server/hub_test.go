package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

func testSettings() config.PreviewSettings {
	s := config.Defaults().Preview
	s.BroadcastsPerSecond = 1000
	s.Burst = 100
	s.Size = 8
	return s
}

func startHub(t *testing.T, h *Hub) string {
	t.Helper()
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readHello(t *testing.T, conn *websocket.Conn) HelloData {
	t.Helper()
	var hello HelloData
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "hello" {
		t.Fatalf("first message type = %q", hello.Type)
	}
	return hello
}

func TestUploadBroadcastsPreviews(t *testing.T) {
	h := NewHub(testSettings(), nil)
	url := startHub(t, h)
	conn := dial(t, url)
	readHello(t, conn)

	cube := cubemap.NewImageCube(16, 3)
	if err := h.Upload(context.Background(), precompute.Result{Name: "space", Cube: cube}); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	for _, f := range cubemap.Faces {
		var p PreviewData
		if err := conn.ReadJSON(&p); err != nil {
			t.Fatalf("read preview: %v", err)
		}
		if p.Type != "preview" || p.Name != "space" || p.Face != f.String() {
			t.Errorf("preview = %s %s %s", p.Type, p.Name, p.Face)
		}
		if p.Width != 8 || p.Height != 8 || len(p.Pixels) != 8*8*4 {
			t.Errorf("preview %s is %dx%d with %d bytes", p.Face, p.Width, p.Height, len(p.Pixels))
		}
	}
}

func TestLateClientReceivesHistory(t *testing.T) {
	h := NewHub(testSettings(), nil)
	url := startHub(t, h)

	strip := raster.NewImage2D(32, 1, 3)
	if err := h.Upload(context.Background(), precompute.Result{Name: "saturn-bands", Image: strip}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	// Volumes have no preview and are skipped
	if err := h.Upload(context.Background(), precompute.Result{Name: "noise", Volume: raster.NewImage3D(2, 2, 2, 1)}); err != nil {
		t.Fatalf("Upload volume: %v", err)
	}

	conn := dial(t, url)
	if hello := readHello(t, conn); hello.Previews != 1 {
		t.Fatalf("hello announces %d previews, want 1", hello.Previews)
	}
	var p PreviewData
	if err := conn.ReadJSON(&p); err != nil {
		t.Fatalf("read replay: %v", err)
	}
	if p.Name != "saturn-bands" || p.Width != 8 || p.Height != 1 {
		t.Errorf("replayed %s %dx%d", p.Name, p.Width, p.Height)
	}
}

func TestCameraQuery(t *testing.T) {
	tl, err := timeline.Demo()
	if err != nil {
		t.Fatalf("Demo: %v", err)
	}
	h := NewHub(testSettings(), tl)
	conn := dial(t, startHub(t, h))
	readHello(t, conn)

	if err := conn.WriteJSON(map[string]int{"stamp": timeline.SplitSceneStart}); err != nil {
		t.Fatal(err)
	}
	var f FrameData
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if f.Type != "camera_frame" || f.Scene != "space" || f.Stamp != timeline.SplitSceneStart {
		t.Errorf("frame = %+v", f)
	}

	if err := conn.WriteJSON(map[string]string{"scene": "space"}); err != nil {
		t.Fatal(err)
	}
	var e ErrorData
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if e.Type != "error" {
		t.Errorf("request without stamp answered with %+v", e)
	}
}

func TestUploadRespectsRateLimit(t *testing.T) {
	s := testSettings()
	s.BroadcastsPerSecond = 0.001
	s.Burst = 1
	h := NewHub(s, nil)
	r := precompute.Result{Name: "trail", Image: raster.NewImage2D(4, 4, 1)}

	if err := h.Upload(context.Background(), r); err != nil {
		t.Fatalf("first Upload: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := h.Upload(ctx, r); err == nil {
		t.Errorf("second Upload within the budget window succeeded")
	}
}

func TestCORSAndOrigin(t *testing.T) {
	s := testSettings()
	s.AllowedOrigins = []string{"http://allowed.example"}
	h := NewHub(s, nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Origin", "http://allowed.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://allowed.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	header := http.Header{"Origin": {"http://evil.example"}}
	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	if err == nil {
		t.Errorf("websocket from a foreign origin was accepted")
	}
}
