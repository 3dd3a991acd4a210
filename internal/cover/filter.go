package cover

import "image"

// LaplacianVariance returns the population variance of the 4-neighbour
// Laplacian response of gray. Borders are reflected (reflect-101).
func LaplacianVariance(gray *image.Gray) float64 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	base := gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y)
	at := func(x, y int) int {
		return int(gray.Pix[base+reflect101(y, h)*gray.Stride+reflect101(x, w)])
	}

	var sum, sumSq int64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int64(at(x, y-1) + at(x, y+1) + at(x-1, y) + at(x+1, y) - 4*at(x, y))
			sum += v
			sumSq += v * v
		}
	}

	n := float64(w * h)
	mean := float64(sum) / n
	variance := float64(sumSq)/n - mean*mean
	if variance < 0 {
		return 0
	}
	return variance
}

// Sharpen applies the 3x3 kernel [0 -1 0; -1 5 -1; 0 -1 0] to every colour
// channel of img, saturating results to [0, 255]. Alpha is left opaque.
func Sharpen(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(b)

	base := img.PixOffset(b.Min.X, b.Min.Y)
	at := func(x, y, c int) int {
		return int(img.Pix[base+reflect101(y, h)*img.Stride+4*reflect101(x, w)+c])
	}

	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				v := 5*at(x, y, c) - at(x, y-1, c) - at(x, y+1, c) - at(x-1, y, c) - at(x+1, y, c)
				row[4*x+c] = clampUint8(v)
			}
			row[4*x+3] = 0xff
		}
	}
	return dst
}
