package frames

import (
	"image"

	"golang.org/x/image/draw"
)

// fitRect returns the largest rectangle with src's aspect ratio that fits in
// a size x size square, centered.
func fitRect(src image.Rectangle, size int) image.Rectangle {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	sw, sh := size, size
	if w > h {
		sh = max(1, size*h/w)
	} else if h > w {
		sw = max(1, size*w/h)
	}
	x := (size - sw) / 2
	y := (size - sh) / 2
	return image.Rect(x, y, x+sw, y+sh)
}

// scaleInto renders src into the cleared dst square, keeping aspect ratio.
func scaleInto(dst *image.RGBA, src image.Image, size int) {
	target := fitRect(src.Bounds(), size)
	if target.Empty() {
		return
	}
	if target.Size() == src.Bounds().Size() {
		draw.Draw(dst, target, src, src.Bounds().Min, draw.Src)
		return
	}
	draw.CatmullRom.Scale(dst, target, src, src.Bounds(), draw.Src, nil)
}
