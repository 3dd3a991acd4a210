package cover

import (
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Admission is the result of running a raw image through the quality gate
// and, when it passes, the enhancement chain
type Admission struct {
	// Image is the enhanced image when Valid, otherwise the caller's input unchanged
	Image  image.Image
	Valid  bool
	Reason Reason
	Detail string
	// Sharpness is the Laplacian variance of the input (0 if never measured)
	Sharpness float64
	// Luminance is the contrast-equalized luma plane when Valid
	Luminance *image.Gray
}

// Enhance validates img with the default checks and enhances it for legibility
func Enhance(img image.Image) Admission {
	return DefaultPipeline().Enhance(img)
}

// Enhance validates img and, if it passes every check, equalizes contrast
// per channel and sharpens it. It never panics; an internal failure rejects
// the image with ReasonInternal.
func (p *Pipeline) Enhance(img image.Image) (adm Admission) {
	start := time.Now()
	sample := NewSample(img)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[COVER] Error during image enhancement: %v", r)
			adm = Admission{
				Image:     img,
				Reason:    ReasonInternal,
				Detail:    fmt.Sprint(r),
				Sharpness: sample.Sharpness,
			}
		}
	}()

	if v := p.Admit(sample); !v.Passed {
		return Admission{
			Image:     img,
			Reason:    v.Reason,
			Detail:    v.Detail,
			Sharpness: sample.Sharpness,
		}
	}

	enhanced, luma, err := enhance(sample)
	if err != nil {
		log.Printf("[COVER] Error during image enhancement: %v", err)
		return Admission{
			Image:     img,
			Reason:    ReasonInternal,
			Detail:    err.Error(),
			Sharpness: sample.Sharpness,
		}
	}

	log.Printf("[COVER] Image enhancement completed in %v (sharpness=%.2f)", time.Since(start), sample.Sharpness)
	return Admission{
		Image:     enhanced,
		Valid:     true,
		Sharpness: sample.Sharpness,
		Luminance: luma,
	}
}

// enhance equalizes the luma plane and the three colour planes concurrently,
// merges the colour planes and sharpens the result
func enhance(s *Sample) (*image.RGBA, *image.Gray, error) {
	rgb := s.RGB()
	channels := splitChannels(rgb)

	var (
		equalized [3]*image.Gray
		luma      *image.Gray
		g         errgroup.Group
	)

	g.Go(func() error {
		return guard("luminance", func() { luma = Equalize(s.Luminance()) })
	})
	for c := range channels {
		g.Go(func() error {
			return guard(fmt.Sprintf("channel %d", c), func() { equalized[c] = Equalize(channels[c]) })
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	merged := mergeChannels(equalized, rgb.Bounds())
	return Sharpen(merged), luma, nil
}

// guard runs fn, turning a panic into an error so it can cross the errgroup
func guard(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("equalize %s: %v", name, r)
		}
	}()
	fn()
	return nil
}
