package emoji

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/go-drift/emojicache/pkg/animation"
)

// Frame is a read-only view of one frame inside a cache image.
type Frame struct {
	Image *image.RGBA
	// Source is the frame rectangle inside Image. Empty means all of Image.
	Source image.Rectangle
}

func (f Frame) source() image.Rectangle {
	if f.Source.Empty() {
		return f.Image.Rect
	}
	return f.Source
}

// SubImage returns the frame pixels without copying.
func (f Frame) SubImage() *image.RGBA {
	return f.Image.SubImage(f.source()).(*image.RGBA)
}

func scaledTarget(target image.Rectangle, ctx *Context) image.Rectangle {
	if !ctx.Scaled {
		return target
	}
	sx := animation.Interpolate(target.Dx()/2, 0, ctx.Scale)
	sy := sx
	if target.Dx() != target.Dy() {
		sy = animation.Interpolate(target.Dy()/2, 0, ctx.Scale)
	}
	return image.Rect(target.Min.X+sx, target.Min.Y+sy, target.Max.X-sx, target.Max.Y-sy)
}

func drawScaled(dst draw.Image, target image.Rectangle, src image.Image, sr image.Rectangle, op draw.Op) {
	if target.Size() == sr.Size() {
		draw.Draw(dst, target, src, sr.Min, op)
		return
	}
	draw.ApproxBiLinear.Scale(dst, target, src, sr, op, nil)
}

// paintScaledImage draws frame into target, honoring the entrance scale and
// the colorize flag of ctx.
func paintScaledImage(dst draw.Image, target image.Rectangle, frame Frame, ctx *Context) {
	target = scaledTarget(target, ctx)
	if target.Empty() || frame.Image == nil {
		return
	}
	sr := frame.source()
	if !ctx.Internal.Colorized {
		drawScaled(dst, target, frame.Image, sr, draw.Over)
		return
	}
	mask := image.NewRGBA(image.Rectangle{Max: target.Size()})
	drawScaled(mask, mask.Rect, frame.Image, sr, draw.Src)
	draw.DrawMask(dst, target, image.NewUniform(ctx.textColor()), image.Point{}, mask, image.Point{}, draw.Over)
}
