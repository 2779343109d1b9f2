package summary

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"pcg/tensor"
)

const gridPad = 2

// MakeGrid normalizes a batch tensor to [0,1] over its global min and
// max and tiles it into a single horizontal strip with a small gap
// between cells. Accepted shapes are [B,H,W] (grayscale) and [B,C,H,W]
// with C of 1 or 3. cellHeight > 0 rescales every cell to that height,
// preserving aspect ratio; zero keeps the native size.
func MakeGrid(t *tensor.Tensor, cellHeight int) (image.Image, error) {
	shape := t.Shape()
	var b, c, h, wd int
	switch len(shape) {
	case 3:
		b, c, h, wd = shape[0], 1, shape[1], shape[2]
	case 4:
		b, c, h, wd = shape[0], shape[1], shape[2], shape[3]
	default:
		return nil, fmt.Errorf("summary: grid of rank-%d tensor, want 3 or 4", len(shape))
	}
	if c != 1 && c != 3 {
		return nil, fmt.Errorf("summary: grid with %d channels, want 1 or 3", c)
	}
	if b == 0 {
		return nil, fmt.Errorf("summary: grid of empty batch")
	}
	min, max := t.MinMax()
	scale := float32(0)
	if max > min {
		scale = 1 / (max - min)
	}
	norm := func(v float32) uint8 {
		f := (v - min) * scale
		return uint8(f*255 + 0.5)
	}

	cells := make([]image.Image, b)
	plane := h * wd
	for i := 0; i < b; i++ {
		img := image.NewRGBA(image.Rect(0, 0, wd, h))
		base := i * c * plane
		for y := 0; y < h; y++ {
			for x := 0; x < wd; x++ {
				var r, g, bb uint8
				if c == 1 {
					v := norm(t.Data[base+y*wd+x])
					r, g, bb = v, v, v
				} else {
					r = norm(t.Data[base+y*wd+x])
					g = norm(t.Data[base+plane+y*wd+x])
					bb = norm(t.Data[base+2*plane+y*wd+x])
				}
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bb, A: 255})
			}
		}
		if cellHeight > 0 && cellHeight != h {
			cells[i] = resize.Resize(0, uint(cellHeight), img, resize.Bilinear)
		} else {
			cells[i] = img
		}
	}

	ch := cells[0].Bounds().Dy()
	cw := cells[0].Bounds().Dx()
	out := image.NewRGBA(image.Rect(0, 0, b*cw+(b+1)*gridPad, ch+2*gridPad))
	for i, cell := range cells {
		x0 := gridPad + i*(cw+gridPad)
		bnd := cell.Bounds()
		for y := 0; y < bnd.Dy(); y++ {
			for x := 0; x < bnd.Dx(); x++ {
				out.Set(x0+x, gridPad+y, cell.At(bnd.Min.X+x, bnd.Min.Y+y))
			}
		}
	}
	return out, nil
}
