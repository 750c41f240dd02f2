// Package imaging is the image-decoding boundary of the validation pipeline.
// The pipeline only needs dimensions, container format, pixel density, and a
// cheap channel statistic; everything else about the image stays opaque.
package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultDensityDPI is assumed when the container carries no density metadata.
// 72 is the JFIF default and sits below the screenshot heuristic's 100 DPI bar.
const DefaultDensityDPI = 72

// Info is what the pipeline learns about an uploaded image.
type Info struct {
	Width        int
	Height       int
	Format       string // "jpeg", "png", ...
	EncodedBytes int
	DensityDPI   float64
	// MeanIntensity is the mean pixel-channel value in [0,255], sampled on a
	// grid. Used as a cheap sharpness/exposure proxy.
	MeanIntensity float64
}

// Decoder turns raw upload bytes into Info. Implementations must be safe for
// concurrent use.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (*Info, error)
}

// StdDecoder decodes with the standard image registry (jpeg, png, gif, plus
// bmp and tiff via x/image).
type StdDecoder struct{}

func NewStdDecoder() *StdDecoder {
	return &StdDecoder{}
}

func (d *StdDecoder) Decode(_ context.Context, data []byte) (*Info, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	info := &Info{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		EncodedBytes:  len(data),
		DensityDPI:    density(format, data),
		MeanIntensity: meanIntensity(img),
	}
	return info, nil
}

// meanIntensity samples the image on a grid of at most 128x128 points and
// averages the RGB channels. Sampling keeps the cost independent of image size.
func meanIntensity(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	stepX, stepY := w/128, h/128
	if stepX < 1 {
		stepX = 1
	}
	if stepY < 1 {
		stepY = 1
	}

	var sum, samples float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += float64(r>>8) + float64(g>>8) + float64(b>>8)
			samples += 3
		}
	}
	if samples == 0 {
		return 0
	}
	return sum / samples
}

// density extracts pixel density from JPEG JFIF or PNG pHYs metadata, falling
// back to DefaultDensityDPI when the container carries none.
func density(format string, data []byte) float64 {
	switch format {
	case "jpeg":
		if dpi, ok := jfifDensity(data); ok {
			return dpi
		}
	case "png":
		if dpi, ok := pngDensity(data); ok {
			return dpi
		}
	}
	return DefaultDensityDPI
}

// jfifDensity reads the density fields of the first JFIF APP0 segment.
func jfifDensity(data []byte) (float64, bool) {
	// SOI + APP0 marker, then segment length, "JFIF\0", version, units, Xdensity.
	idx := bytes.Index(data, []byte("JFIF\x00"))
	if idx < 0 || idx+12 > len(data) {
		return 0, false
	}
	units := data[idx+7]
	xDensity := binary.BigEndian.Uint16(data[idx+8 : idx+10])
	if xDensity == 0 {
		return 0, false
	}
	switch units {
	case 1: // dots per inch
		return float64(xDensity), true
	case 2: // dots per centimetre
		return float64(xDensity) * 2.54, true
	default: // 0: aspect ratio only, no density
		return 0, false
	}
}

// pngDensity reads the pHYs chunk when present.
func pngDensity(data []byte) (float64, bool) {
	idx := bytes.Index(data, []byte("pHYs"))
	if idx < 0 || idx+13 > len(data) {
		return 0, false
	}
	ppuX := binary.BigEndian.Uint32(data[idx+4 : idx+8])
	unit := data[idx+12]
	if unit != 1 || ppuX == 0 { // 1 = pixels per metre
		return 0, false
	}
	return float64(ppuX) * 0.0254, true
}
