package rendering

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/compositor"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
)

// skyboxName is the result uploaded as the viewer sky
const skyboxName = "space"

// SkyboxFaces is the left to right face order of a horizontal cubemap strip
var SkyboxFaces = [cubemap.FaceCount]cubemap.Face{
	cubemap.PosX, cubemap.NegX, cubemap.PosY, cubemap.NegY, cubemap.PosZ, cubemap.NegZ,
}

// SkyboxStrip lays the six sides of cube out in one row, square faces side by side
func SkyboxStrip(cube *compositor.ImageCube) (*image.RGBA, error) {
	size := cube.Size()
	strip := image.NewRGBA(image.Rect(0, 0, size*cubemap.FaceCount, size))
	for ii, f := range SkyboxFaces {
		face, err := cube.Side(f).ToImage(1)
		if err != nil {
			return nil, fmt.Errorf("skybox face %s: %w", f, err)
		}
		dst := image.Rect(ii*size, 0, (ii+1)*size, size)
		draw.Copy(strip, dst.Min, face, face.Bounds(), draw.Src, nil)
	}
	return strip, nil
}
