package precompute

import (
	"context"
	"errors"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/compositor"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

// Result is one finished raster handed to the upload stage.
// Exactly one of Cube, Image and Volume is set.
type Result struct {
	Name   string
	Cube   *compositor.ImageCube
	Image  *raster.Image2D
	Volume *raster.Image3D
}

// Channels returns the channel count of whichever raster the result carries
func (r Result) Channels() int {
	switch {
	case r.Cube != nil:
		return r.Cube.Channels()
	case r.Image != nil:
		return r.Image.Channels()
	case r.Volume != nil:
		return r.Volume.Channels()
	}
	return 0
}

// Uploader consumes finished rasters. Upload is always called from one goroutine,
// one result at a time; the producer waits until it returns.
type Uploader interface {
	Upload(ctx context.Context, r Result) error
}

// UploaderFunc adapts a function to Uploader
type UploaderFunc func(ctx context.Context, r Result) error

func (f UploaderFunc) Upload(ctx context.Context, r Result) error {
	return f(ctx, r)
}

// MultiUploader hands every result to each uploader in turn and joins their errors
type MultiUploader []Uploader

func (m MultiUploader) Upload(ctx context.Context, r Result) error {
	var errs []error
	for _, u := range m {
		if err := u.Upload(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
