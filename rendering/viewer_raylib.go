//go:build raylib

package rendering

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/compositor"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

const thumbnailSize = 96

const skyboxVertex = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
out vec3 fragPosition;
void main()
{
    fragPosition = vertexPosition;
    gl_Position = matProjection * mat4(mat3(matView)) * vec4(vertexPosition, 1.0);
}
`

const skyboxFragment = `#version 330
in vec3 fragPosition;
uniform samplerCube environmentMap;
out vec4 finalColor;
void main()
{
    finalColor = vec4(texture(environmentMap, fragPosition).rgb, 1.0);
}
`

type loadedTexture struct {
	label   string
	texture rl.Texture2D
}

// Viewer opens a window, uploads results as textures on the window thread and
// flies the timeline camera once loading is done
type Viewer struct {
	settings config.ViewerSettings
	timeline *timeline.Timeline
	textures []loadedTexture
	shake    *compositor.DistortTable
	skybox   *rl.Model
	skyTex   rl.Texture2D
	skyShade rl.Shader
	logger   *slog.Logger
}

// NewViewer creates a viewer; tl may be nil to skip the camera flight
func NewViewer(settings config.ViewerSettings, tl *timeline.Timeline) *Viewer {
	return &Viewer{
		settings: settings,
		timeline: tl,
		logger:   slog.With("component", "viewer"),
	}
}

// Run owns the calling goroutine until the window closes or ctx is cancelled.
// Each frame uploads at most one pending result and releases the producer.
func (v *Viewer) Run(ctx context.Context, src Source) error {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(v.settings.Width), int32(v.settings.Height), "Cassini precompute")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	defer v.unload()

	results := src.Results()
	flightStart := -1.0
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if results != nil {
			select {
			case r, ok := <-results:
				if !ok {
					results = nil
					break
				}
				v.upload(r)
				src.Release()
			default:
			}
		}
		if flightStart < 0 && src.Done() {
			flightStart = rl.GetTime()
			if a := src.Assets(); a != nil {
				v.shake = a.Distort
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		if flightStart >= 0 && v.timeline != nil {
			v.drawFlight(int((rl.GetTime() - flightStart) * 1000))
		}
		v.drawThumbnails()
		if flightStart < 0 {
			rl.DrawText(fmt.Sprintf("loading: %d textures", len(v.textures)), 10, int32(v.settings.Height-30), 20, rl.RayWhite)
		}
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
	return nil
}

func (v *Viewer) upload(r precompute.Result) {
	if r.Name == skyboxName && r.Cube != nil {
		v.loadSkybox(r.Cube)
	}
	for _, th := range Thumbnails(r) {
		img, err := th.Image.ToImage(1)
		if err != nil {
			v.logger.Warn("Texture conversion failed", "label", th.Label, "error", err)
			continue
		}
		rimg := rl.NewImageFromImage(img)
		v.textures = append(v.textures, loadedTexture{label: th.Label, texture: rl.LoadTextureFromImage(rimg)})
		rl.UnloadImage(rimg)
	}
	v.logger.Info("Uploaded", "name", r.Name, "textures", len(v.textures))
}

func (v *Viewer) drawFlight(ms int) {
	cam, err := CameraAt(v.timeline, v.shake, ms)
	if err != nil {
		v.logger.Warn("Camera resolve failed", "ms", ms, "error", err)
		return
	}
	rl.BeginMode3D(rl.Camera3D{
		Position:   rl.NewVector3(cam.Position[0], cam.Position[1], cam.Position[2]),
		Target:     rl.NewVector3(cam.Target[0], cam.Target[1], cam.Target[2]),
		Up:         rl.NewVector3(cam.Up[0], cam.Up[1], cam.Up[2]),
		Fovy:       v.settings.FOV,
		Projection: rl.CameraPerspective,
	})
	if v.skybox != nil {
		rl.DisableBackfaceCulling()
		rl.DisableDepthMask()
		rl.DrawModel(*v.skybox, rl.NewVector3(0, 0, 0), 1, rl.White)
		rl.EnableDepthMask()
		rl.EnableBackfaceCulling()
	}
	rl.DrawSphere(rl.NewVector3(0, 0, 0), 58.232, rl.Beige)
	rl.DrawGrid(20, 10)
	rl.EndMode3D()
	rl.DrawText(cam.Scene.String(), 10, 40, 20, rl.RayWhite)
}

func (v *Viewer) drawThumbnails() {
	perRow := max(v.settings.Width/thumbnailSize, 1)
	for ii, t := range v.textures {
		x := float32(ii%perRow) * thumbnailSize
		y := float32(70 + (ii/perRow)*thumbnailSize)
		src := rl.NewRectangle(0, 0, float32(t.texture.Width), float32(t.texture.Height))
		dst := rl.NewRectangle(x, y, thumbnailSize-2, thumbnailSize-2)
		rl.DrawTexturePro(t.texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	}
}

// loadSkybox uploads the sky cube as a cubemap texture on a unit cube drawn around the camera
func (v *Viewer) loadSkybox(cube *compositor.ImageCube) {
	strip, err := SkyboxStrip(cube)
	if err != nil {
		v.logger.Warn("Skybox conversion failed", "error", err)
		return
	}
	rimg := rl.NewImageFromImage(strip)
	texture := rl.LoadTextureCubemap(rimg, rl.CubemapLayoutLineHorizontal)
	rl.UnloadImage(rimg)

	model := rl.LoadModelFromMesh(rl.GenMeshCube(1, 1, 1))
	shader := rl.LoadShaderFromMemory(skyboxVertex, skyboxFragment)
	// The uniform is an int sampler slot; the binding passes raw bytes.
	slot := math.Float32frombits(uint32(rl.MapCubemap))
	rl.SetShaderValue(shader, rl.GetShaderLocation(shader, "environmentMap"), []float32{slot}, rl.ShaderUniformInt)
	model.Materials.Shader = shader
	rl.SetMaterialTexture(model.Materials, rl.MapCubemap, texture)
	v.skybox = &model
	v.skyTex = texture
	v.skyShade = shader
	v.logger.Info("Skybox loaded", "size", cube.Size())
}

func (v *Viewer) unload() {
	if v.skybox != nil {
		rl.UnloadModel(*v.skybox)
		rl.UnloadTexture(v.skyTex)
		rl.UnloadShader(v.skyShade)
		v.skybox = nil
	}
	for _, t := range v.textures {
		rl.UnloadTexture(t.texture)
	}
	v.textures = nil
}
