package cover

import (
	"fmt"
	"image"
	"log"
)

const (
	// MinDimension is the smallest width or height accepted as a cover photo
	MinDimension = 200
	// BlurThreshold is the minimum Laplacian variance of a sharp photo
	BlurThreshold = 10.0
)

// Reason explains why an image was not admitted
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonEmpty     Reason = "empty"
	ReasonTooSmall  Reason = "too_small"
	ReasonTooBlurry Reason = "too_blurry"
	ReasonInternal  Reason = "internal"
)

// Verdict is the outcome of a single admission check
type Verdict struct {
	Passed bool
	Reason Reason
	Detail string
}

// Pass returns a passing verdict
func Pass() Verdict {
	return Verdict{Passed: true}
}

// Reject returns a failing verdict
func Reject(reason Reason, detail string) Verdict {
	return Verdict{Reason: reason, Detail: detail}
}

// Check is a single admission rule
type Check interface {
	// Name returns the check's name for logging
	Name() string
	// Check inspects the sample and returns a verdict
	Check(s *Sample) Verdict
}

// Sample is the image under inspection plus the planes derived from it.
// Derived planes are computed on first use and shared by later checks and
// by the enhancement stage.
type Sample struct {
	Image     image.Image
	Sharpness float64

	rgb  *image.RGBA
	luma *image.Gray
}

// NewSample wraps img for admission
func NewSample(img image.Image) *Sample {
	return &Sample{Image: img}
}

// RGB returns the image as opaque RGB
func (s *Sample) RGB() *image.RGBA {
	if s.rgb == nil {
		s.rgb = ToRGB(s.Image)
	}
	return s.rgb
}

// Luminance returns the single-channel luminance plane
func (s *Sample) Luminance() *image.Gray {
	if s.luma == nil {
		s.luma = Luminance(s.RGB())
	}
	return s.luma
}

// EmptyCheck rejects nil or zero-area images
type EmptyCheck struct{}

func (EmptyCheck) Name() string { return "EmptyCheck" }

func (EmptyCheck) Check(s *Sample) Verdict {
	if s.Image == nil || s.Image.Bounds().Empty() {
		return Reject(ReasonEmpty, "image is empty")
	}
	return Pass()
}

// SizeCheck rejects images too small to carry legible cover text
type SizeCheck struct {
	Min int
}

func (c SizeCheck) Name() string { return "SizeCheck" }

func (c SizeCheck) Check(s *Sample) Verdict {
	b := s.Image.Bounds()
	if b.Dx() < c.Min || b.Dy() < c.Min {
		return Reject(ReasonTooSmall, fmt.Sprintf("image too small: %dx%d", b.Dx(), b.Dy()))
	}
	return Pass()
}

// SharpnessCheck rejects motion-blurred or out-of-focus captures using the
// variance of the Laplacian of the luminance plane
type SharpnessCheck struct {
	Threshold float64
}

func (c SharpnessCheck) Name() string { return "SharpnessCheck" }

func (c SharpnessCheck) Check(s *Sample) Verdict {
	s.Sharpness = LaplacianVariance(s.Luminance())
	if s.Sharpness < c.Threshold {
		return Reject(ReasonTooBlurry, fmt.Sprintf("image too blurry: %.2f", s.Sharpness))
	}
	return Pass()
}

// Pipeline runs admission checks in order, stopping at the first rejection
type Pipeline struct {
	checks []Check
}

// NewPipeline creates a pipeline from the given checks
func NewPipeline(checks ...Check) *Pipeline {
	return &Pipeline{checks: checks}
}

// DefaultPipeline returns the empty, size and sharpness checks used for covers
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		EmptyCheck{},
		SizeCheck{Min: MinDimension},
		SharpnessCheck{Threshold: BlurThreshold},
	)
}

// Admit runs every check against the sample
func (p *Pipeline) Admit(s *Sample) Verdict {
	for _, c := range p.checks {
		v := c.Check(s)
		if !v.Passed {
			log.Printf("[COVER] %s: FAIL - %s", c.Name(), v.Detail)
			return v
		}
	}
	return Pass()
}
