// Package export writes finished rasters to disk: PNG for 8-bit, TIFF for 16-bit
// and raw little-endian dumps for float32 data and volumes.
package export

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/cubemap"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/raster"
)

// Writer is a precompute.Uploader that stores every result under one directory
type Writer struct {
	dir    string
	depth  int
	logger *slog.Logger
}

// NewWriter creates dir if needed. depth is bytes per channel: 1, 2 or 4.
func NewWriter(dir string, depth int) (*Writer, error) {
	switch depth {
	case 1, 2, 4:
	default:
		return nil, fmt.Errorf("unsupported export depth %d", depth)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &Writer{
		dir:    dir,
		depth:  depth,
		logger: slog.With("component", "export"),
	}, nil
}

// Upload writes the result: one file per cube face, one per image or volume
func (w *Writer) Upload(ctx context.Context, r precompute.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var paths []string
	switch {
	case r.Cube != nil:
		for _, f := range cubemap.Faces {
			p, err := w.WriteImage(r.Name+"_"+FaceSuffix(f), r.Cube.Side(f))
			if err != nil {
				return err
			}
			paths = append(paths, p)
		}
	case r.Image != nil:
		p, err := w.WriteImage(r.Name, r.Image)
		if err != nil {
			return err
		}
		paths = append(paths, p)
	case r.Volume != nil:
		p, err := w.WriteVolume(r.Name, r.Volume)
		if err != nil {
			return err
		}
		paths = append(paths, p)
	default:
		return fmt.Errorf("result %s carries no raster", r.Name)
	}

	w.logger.Info("Exported", "name", r.Name, "files", len(paths), "depth", w.depth)
	return nil
}

// FaceSuffix names a cube face for file names: negx, posx ...
func FaceSuffix(f cubemap.Face) string {
	s := f.String()
	sign := "pos"
	if s[0] == '-' {
		sign = "neg"
	}
	return sign + s[1:]
}

// WriteImage encodes a 2D raster and returns the written path
func (w *Writer) WriteImage(name string, img *raster.Image2D) (string, error) {
	if w.depth == 4 {
		path := filepath.Join(w.dir, fmt.Sprintf("%s_%dx%dx%d.f32", name, img.Width(), img.Height(), img.Channels()))
		return path, w.writeRaw(path, &img.Image)
	}

	out, err := img.ToImage(w.depth)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	ext := ".png"
	if w.depth == 2 {
		ext = ".tiff"
	}
	path := filepath.Join(w.dir, name+ext)
	err = writeFile(path, func(bw *bufio.Writer) error {
		if w.depth == 2 {
			return tiff.Encode(bw, out, &tiff.Options{Compression: tiff.Deflate})
		}
		return png.Encode(bw, out)
	})
	return path, err
}

// WriteVolume dumps a volume at the writer depth and returns the written path
func (w *Writer) WriteVolume(name string, vol *raster.Image3D) (string, error) {
	ext := map[int]string{1: "u8", 2: "u16", 4: "f32"}[w.depth]
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%dx%dx%dx%d.%s",
		name, vol.Width(), vol.Height(), vol.Depth(), vol.Channels(), ext))
	return path, w.writeRaw(path, &vol.Image)
}

func (w *Writer) writeRaw(path string, img *raster.Image) error {
	data, err := img.Export(w.depth)
	if err != nil {
		return err
	}
	return writeFile(path, func(bw *bufio.Writer) error {
		_, err := bw.Write(data)
		return err
	})
}

func writeFile(path string, encode func(*bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
