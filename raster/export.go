package raster

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Export converts the raster to 1, 2 or 4 bytes per element.
// Integer formats clamp to [0, 1] and round; 4 bytes writes little-endian float32.
func (img *Image) Export(bytesPerChannel int) ([]byte, error) {
	switch bytesPerChannel {
	case 1:
		out := make([]byte, len(img.data))
		for i, v := range img.data {
			out[i] = to8(v)
		}
		return out, nil
	case 2:
		out := make([]byte, len(img.data)*2)
		for i, v := range img.data {
			binary.LittleEndian.PutUint16(out[i*2:], to16(v))
		}
		return out, nil
	case 4:
		out := make([]byte, len(img.data)*4)
		for i, v := range img.data {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported export depth: %d bytes per channel", bytesPerChannel)
}

func to8(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

func to16(v float32) uint16 {
	return uint16(mgl32.Clamp(v, 0, 1)*65535 + 0.5)
}

// ToImage converts a 2D raster into a standard image of 8 or 16 bits per channel.
// One channel becomes gray, three become opaque RGB, four become non-premultiplied RGBA.
func (img *Image2D) ToImage(bytesPerChannel int) (image.Image, error) {
	if bytesPerChannel != 1 && bytesPerChannel != 2 {
		return nil, fmt.Errorf("unsupported image depth: %d bytes per channel", bytesPerChannel)
	}
	if img.channels != 1 && img.channels != 3 && img.channels != 4 {
		return nil, fmt.Errorf("cannot convert raster with %d channels", img.channels)
	}

	rect := image.Rect(0, 0, img.width, img.height)
	at := func(x, y, c int) float32 {
		if c >= img.channels {
			return 1
		}
		return img.Value(x, y, c)
	}

	if img.channels == 1 {
		if bytesPerChannel == 1 {
			out := image.NewGray(rect)
			for y := 0; y < img.height; y++ {
				for x := 0; x < img.width; x++ {
					out.SetGray(x, y, color.Gray{Y: to8(img.Value(x, y, 0))})
				}
			}
			return out, nil
		}
		out := image.NewGray16(rect)
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				out.SetGray16(x, y, color.Gray16{Y: to16(img.Value(x, y, 0))})
			}
		}
		return out, nil
	}

	if bytesPerChannel == 1 {
		out := image.NewNRGBA(rect)
		for y := 0; y < img.height; y++ {
			for x := 0; x < img.width; x++ {
				out.SetNRGBA(x, y, color.NRGBA{
					R: to8(at(x, y, 0)),
					G: to8(at(x, y, 1)),
					B: to8(at(x, y, 2)),
					A: to8(at(x, y, 3)),
				})
			}
		}
		return out, nil
	}
	out := image.NewNRGBA64(rect)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			out.SetNRGBA64(x, y, color.NRGBA64{
				R: to16(at(x, y, 0)),
				G: to16(at(x, y, 1)),
				B: to16(at(x, y, 2)),
				A: to16(at(x, y, 3)),
			})
		}
	}
	return out, nil
}
