// Package quality scores the objective technical quality of an uploaded image
// and carries the screenshot heuristic. Both are pure functions over decoded
// image properties - no I/O, no side effects.
package quality

import (
	"math"

	"veridoc/internal/validation/imaging"
)

// Bands breaks the technical score into its additive components, surfaced in
// validation reports so reviewers can see what dragged a score down.
type Bands struct {
	Resolution  int `json:"resolution"`
	Format      int `json:"format"`
	Compression int `json:"compression"`
	Sharpness   int `json:"sharpness"`
	Capture     int `json:"capture"`
}

// Report is the quality analyzer's result for one document.
type Report struct {
	Score      int    `json:"score"`
	Bands      Bands  `json:"bands"`
	Screenshot bool   `json:"screenshot"`
	DecodeErr  string `json:"decode_error,omitempty"`
}

// Failed builds the degraded report used when the image cannot be decoded.
// Decode failure is never fatal to the pipeline; the document simply scores 0.
func Failed(err error) Report {
	r := Report{}
	if err != nil {
		r.DecodeErr = err.Error()
	}
	return r
}

// Analyze computes the technical-quality score for a decoded image. The five
// bands are additive and the total caps at 100.
func Analyze(info *imaging.Info) Report {
	if info == nil {
		return Failed(nil)
	}

	screenshot := IsScreenshot(info)

	bands := Bands{
		Resolution:  resolutionBand(info.Width, info.Height),
		Format:      formatBand(info.Format),
		Compression: compressionBand(info),
		Sharpness:   sharpnessBand(info.MeanIntensity),
	}
	if !screenshot {
		bands.Capture = 20
	}

	return Report{
		Score:      bands.Resolution + bands.Format + bands.Compression + bands.Sharpness + bands.Capture,
		Bands:      bands,
		Screenshot: screenshot,
	}
}

func resolutionBand(width, height int) int {
	short := width
	if height < short {
		short = height
	}
	switch {
	case short >= 1200:
		return 30
	case short >= 800:
		return 20
	case short >= 600:
		return 10
	default:
		return 0
	}
}

func formatBand(format string) int {
	if format == "jpeg" || format == "png" {
		return 10
	}
	return 0
}

// compressionBand rewards files that keep enough bytes per pixel. Heavily
// recompressed uploads lose detail the later stages depend on.
func compressionBand(info *imaging.Info) int {
	pixels := info.Width * info.Height
	if pixels == 0 {
		return 0
	}
	ratio := float64(info.EncodedBytes) / float64(pixels*3)
	switch {
	case ratio > 0.10:
		return 20
	case ratio > 0.05:
		return 10
	default:
		return 0
	}
}

func sharpnessBand(meanIntensity float64) int {
	switch {
	case meanIntensity > 100:
		return 20
	case meanIntensity > 50:
		return 10
	default:
		return 0
	}
}

// screenRatios are the common display aspect ratios the screenshot heuristic
// compares against.
var screenRatios = []float64{16.0 / 9.0, 16.0 / 10.0, 4.0 / 3.0, 21.0 / 9.0}

const (
	ratioTolerance       = 0.01
	screenshotDensityDPI = 100
)

// IsScreenshot applies the screenshot heuristic: dimensions divisible by 8 on
// both axes, aspect ratio within tolerance of a common screen ratio, and
// density under 100 DPI. All three clauses must hold. This is policy, not a
// correctness guarantee; it will misclassify some genuine documents.
func IsScreenshot(info *imaging.Info) bool {
	if info == nil || info.Width == 0 || info.Height == 0 {
		return false
	}
	if info.Width%8 != 0 || info.Height%8 != 0 {
		return false
	}

	ratio := float64(info.Width) / float64(info.Height)
	if ratio < 1 {
		ratio = 1 / ratio
	}
	matched := false
	for _, screen := range screenRatios {
		if math.Abs(ratio-screen) < ratioTolerance {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	return info.DensityDPI < screenshotDensityDPI
}
