package cover

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Fixed-point BT.601 luma weights scaled by 1<<14
const (
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaShift = 14
)

// ToRGB converts any image into an opaque RGBA image with the same bounds.
// Grayscale is expanded to three equal channels; alpha is dropped rather
// than composited.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Copy(dst, b.Min, img, b, draw.Src, nil)
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// Luminance returns the luma plane of an RGB image, indexed from (0, 0)
func Luminance(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			r, g, bl := uint32(src[4*x]), uint32(src[4*x+1]), uint32(src[4*x+2])
			dst[x] = uint8((r*lumaR + g*lumaG + bl*lumaB + 1<<(lumaShift-1)) >> lumaShift)
		}
	}
	return gray
}

// splitChannels returns the R, G and B planes of img, indexed from (0, 0)
func splitChannels(img *image.RGBA) [3]*image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var planes [3]*image.Gray
	for c := range planes {
		planes[c] = image.NewGray(image.Rect(0, 0, w, h))
	}
	for y := 0; y < h; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			for c := range planes {
				planes[c].Pix[y*planes[c].Stride+x] = src[4*x+c]
			}
		}
	}
	return planes
}

// mergeChannels recombines three planes into an opaque image with bounds r
func mergeChannels(planes [3]*image.Gray, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(r)
	w, h := r.Dx(), r.Dy()
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			for c := range planes {
				row[4*x+c] = planes[c].Pix[y*planes[c].Stride+x]
			}
			row[4*x+3] = 0xff
		}
	}
	return dst
}

// reflect101 maps an out-of-range index back into [0, n) mirroring around the
// edge pixels without repeating them (dcb|abcd|cba)
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func clampUint8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
