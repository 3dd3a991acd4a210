package cover

import (
	"image"
	"math"
	"testing"
)

func grayFrom(w, h int, pix []uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	copy(g.Pix, pix)
	return g
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{i: 0, n: 5, want: 0},
		{i: 4, n: 5, want: 4},
		{i: -1, n: 5, want: 1},
		{i: -2, n: 5, want: 2},
		{i: 5, n: 5, want: 3},
		{i: 6, n: 5, want: 2},
		{i: 3, n: 1, want: 0},
		{i: -3, n: 2, want: 1},
	}
	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestLaplacianVariance(t *testing.T) {
	tests := []struct {
		name string
		img  *image.Gray
		want float64
	}{
		{
			name: "flat",
			img:  grayFrom(4, 4, []uint8{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}),
			want: 0,
		},
		{
			// Responses: centre -36, edge midpoints 18, corners 0.
			name: "single bright pixel",
			img:  grayFrom(3, 3, []uint8{0, 0, 0, 0, 9, 0, 0, 0, 0}),
			want: 272,
		},
		{
			name: "empty",
			img:  image.NewGray(image.Rect(0, 0, 0, 0)),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LaplacianVariance(tt.img); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LaplacianVariance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSharpen(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+3] = 255
	}
	img.Pix[img.PixOffset(1, 1)] = 9 // red channel of the centre pixel

	out := Sharpen(img)

	if got := out.RGBAAt(1, 1).R; got != 45 {
		t.Errorf("centre red = %d, want 45", got)
	}
	if got := out.RGBAAt(0, 1).R; got != 0 {
		t.Errorf("neighbour red = %d, want 0 (saturated)", got)
	}
	if got := out.RGBAAt(1, 1).G; got != 0 {
		t.Errorf("centre green = %d, want 0", got)
	}
	if !out.Opaque() {
		t.Errorf("Sharpen() output is not opaque")
	}

	flat := uniform(5, 5, 77)
	for i, v := range Sharpen(flat).Pix {
		want := uint8(77)
		if i%4 == 3 {
			want = 255
		}
		if v != want {
			t.Fatalf("Sharpen(flat) byte %d = %d, want %d", i, v, want)
		}
	}
}

func TestEqualize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		in   uint8
		want uint8
	}{
		// 32x32 tiles, clip limit 8: the flat bin keeps 8+3+1 of 1024 samples
		// on top of 400 redistributed below it, so 100 maps to round(412*255/1024).
		{name: "divisible by grid", w: 256, h: 256, in: 100, want: 103},
		{name: "padded grid", w: 300, h: 210, in: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := make([]uint8, tt.w*tt.h)
			for i := range pix {
				pix[i] = tt.in
			}
			out := Equalize(grayFrom(tt.w, tt.h, pix))
			if out.Bounds() != image.Rect(0, 0, tt.w, tt.h) {
				t.Fatalf("Equalize() bounds = %v", out.Bounds())
			}
			first := out.Pix[0]
			if tt.want != 0 && first != tt.want {
				t.Errorf("Equalize() value = %d, want %d", first, tt.want)
			}
			for i, v := range out.Pix {
				if v != first {
					t.Fatalf("Equalize() of flat image not flat at %d: %d != %d", i, v, first)
				}
			}
		})
	}
}

func TestEqualizeStretchesLowContrast(t *testing.T) {
	// Two close grey levels should be pushed further apart.
	w, h := 64, 64
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = 120
		if (i/w+i%w)%2 == 0 {
			pix[i] = 130
		}
	}
	out := Equalize(grayFrom(w, h, pix))
	lo, hi := out.Pix[1], out.Pix[0]
	if int(hi)-int(lo) <= 10 {
		t.Errorf("Equalize() contrast = %d, want > 10", int(hi)-int(lo))
	}
}

func TestLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	copy(img.Pix, []uint8{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
	})
	got := Luminance(img).Pix
	want := []uint8{76, 150, 29}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Luminance()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
