package server

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

// PreviewData is one downsampled raster, RGBA8 rows top to bottom
type PreviewData struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Face   string `json:"face,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

// HelloData greets a new client with the number of previews that follow
type HelloData struct {
	Type     string `json:"type"`
	Previews int    `json:"previews"`
}

// FrameData answers a camera query
type FrameData struct {
	Type      string     `json:"type"`
	Stamp     int        `json:"stamp"`
	Scene     string     `json:"scene"`
	SceneTime int        `json:"sceneTime"`
	Position  [3]float32 `json:"position"`
	Eye       [3]float32 `json:"eye"`
	Up        [3]float32 `json:"up"`
}

// ErrorData reports a rejected client request
type ErrorData struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// createPreviews downsamples every 2D raster of a result. Volumes have no preview.
func createPreviews(r precompute.Result, size int) ([]PreviewData, error) {
	switch {
	case r.Cube != nil:
		out := make([]PreviewData, 0, cubemap.FaceCount)
		for _, f := range cubemap.Faces {
			p, err := createPreview(r.Name, r.Cube.Side(f), size)
			if err != nil {
				return nil, err
			}
			p.Face = f.String()
			out = append(out, p)
		}
		return out, nil
	case r.Image != nil:
		p, err := createPreview(r.Name, r.Image, size)
		if err != nil {
			return nil, err
		}
		return []PreviewData{p}, nil
	}
	return nil, nil
}

func createPreview(name string, img *raster.Image2D, size int) (PreviewData, error) {
	src, err := img.ToImage(1)
	if err != nil {
		return PreviewData{}, fmt.Errorf("preview %s: %w", name, err)
	}
	w := min(size, img.Width())
	h := max(img.Height()*w/img.Width(), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return PreviewData{
		Type:   "preview",
		Name:   name,
		Width:  w,
		Height: h,
		Pixels: dst.Pix,
	}, nil
}

func createFrameData(stamp int, f timeline.Frame) FrameData {
	return FrameData{
		Type:      "camera_frame",
		Stamp:     stamp,
		Scene:     f.Scene.String(),
		SceneTime: f.SceneTime,
		Position:  f.Position,
		Eye:       f.Eye,
		Up:        f.Up,
	}
}
