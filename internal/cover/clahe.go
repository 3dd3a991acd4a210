package cover

import (
	"image"
	"math"
)

const (
	claheClipLimit = 2.0
	claheTiles     = 8
	histSize       = 256
)

// Equalize applies contrast limited adaptive histogram equalization to gray
// using an 8x8 tile grid and a clip limit of 2.0. The result has the same
// size as gray and is indexed from (0, 0).
func Equalize(gray *image.Gray) *image.Gray {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	// Tiles are laid over an image padded up to a multiple of the grid.
	extW, extH := w, h
	if w%claheTiles != 0 || h%claheTiles != 0 {
		extW = w + claheTiles - w%claheTiles
		extH = h + claheTiles - h%claheTiles
	}
	tileW, tileH := extW/claheTiles, extH/claheTiles
	base := gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y)
	src := func(x, y int) uint8 {
		return gray.Pix[base+reflect101(y, h)*gray.Stride+reflect101(x, w)]
	}

	luts := tileLUTs(src, tileW, tileH)

	invTW := float32(1) / float32(tileW)
	invTH := float32(1) / float32(tileH)

	for y := 0; y < h; y++ {
		ty1, ty2, ya := tileCoord(y, invTH)
		ya1 := 1 - ya
		row := dst.Pix[y*dst.Stride:]
		srcRow := gray.Pix[base+y*gray.Stride:]
		for x := 0; x < w; x++ {
			tx1, tx2, xa := tileCoord(x, invTW)
			xa1 := 1 - xa
			v := srcRow[x]

			top := float32(luts[ty1*claheTiles+tx1][v])*xa1 + float32(luts[ty1*claheTiles+tx2][v])*xa
			bottom := float32(luts[ty2*claheTiles+tx1][v])*xa1 + float32(luts[ty2*claheTiles+tx2][v])*xa
			row[x] = roundUint8(top*ya1 + bottom*ya)
		}
	}
	return dst
}

// tileLUTs builds the clipped cumulative-histogram lookup table of every tile
func tileLUTs(src func(x, y int) uint8, tileW, tileH int) [][histSize]uint8 {
	tileArea := tileW * tileH
	clipLimit := int(claheClipLimit * float64(tileArea) / histSize)
	if clipLimit < 1 {
		clipLimit = 1
	}
	lutScale := float32(histSize-1) / float32(tileArea)

	luts := make([][histSize]uint8, claheTiles*claheTiles)
	for ty := 0; ty < claheTiles; ty++ {
		for tx := 0; tx < claheTiles; tx++ {
			var hist [histSize]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[src(x, y)]++
				}
			}

			clipHistogram(&hist, clipLimit)

			lut := &luts[ty*claheTiles+tx]
			sum := 0
			for i := range hist {
				sum += hist[i]
				lut[i] = roundUint8(float32(sum) * lutScale)
			}
		}
	}
	return luts
}

// clipHistogram caps every bin at limit and spreads the excess evenly, with
// any remainder handed out at a fixed stride from the first bin
func clipHistogram(hist *[histSize]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histSize
	residual := clipped - batch*histSize
	for i := range hist {
		hist[i] += batch
	}

	if residual != 0 {
		step := histSize / residual
		if step < 1 {
			step = 1
		}
		for i := 0; i < histSize && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

// tileCoord returns the two tiles bracketing pixel p and the weight of the second
func tileCoord(p int, invTileSize float32) (int, int, float32) {
	f := float32(p)*invTileSize - 0.5
	t1 := int(math.Floor(float64(f)))
	t2 := t1 + 1
	a := f - float32(t1)
	if t1 < 0 {
		t1 = 0
	}
	if t2 > claheTiles-1 {
		t2 = claheTiles - 1
	}
	return t1, t2, a
}

func roundUint8(v float32) uint8 {
	r := math.RoundToEven(float64(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
