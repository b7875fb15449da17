package emoji

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/go-drift/emojicache/pkg/animation"
)

type previewKind uint8

const (
	previewNone previewKind = iota
	previewPath
	previewImage
)

// Preview is a cheap placeholder shown before animation frames are ready:
// nothing, a vector path filled with a faint text color, or a still image.
type Preview struct {
	kind  previewKind
	path  *Path
	scale float64
	image *image.RGBA
	exact bool
}

// PathPreview returns a preview filling path, scaled by scale.
func PathPreview(path *Path, scale float64) Preview {
	if path == nil {
		return Preview{}
	}
	return Preview{kind: previewPath, path: path, scale: scale}
}

// ImagePreview returns a preview showing img. exact marks an image that is
// the real first frame rather than a thumbnail.
func ImagePreview(img *image.RGBA, exact bool) Preview {
	if img == nil {
		return Preview{}
	}
	return Preview{kind: previewImage, image: img, exact: exact}
}

// Valid reports whether the preview shows anything.
func (p Preview) Valid() bool {
	return p.kind != previewNone
}

func (p Preview) IsImage() bool {
	return p.kind == previewImage
}

func (p Preview) IsExactImage() bool {
	return p.kind == previewImage && p.exact
}

// Image returns the preview image, or nil for non-image previews.
func (p Preview) Image() *image.RGBA {
	if p.kind != previewImage {
		return nil
	}
	return p.image
}

// Paint draws the preview at ctx.Position.
func (p Preview) Paint(dst draw.Image, ctx *Context) {
	switch p.kind {
	case previewPath:
		p.paintPath(dst, ctx)
	case previewImage:
		rect := image.Rectangle{Min: ctx.Position, Max: ctx.Position.Add(p.image.Rect.Size())}
		paintScaledImage(dst, rect, Frame{Image: p.image}, ctx)
	}
}

func (p Preview) paintPath(dst draw.Image, ctx *Context) {
	cx := float64(ctx.Size.X) / 2
	cy := float64(ctx.Size.Y) / 2
	transform := func(x, y float32) (float32, float32) {
		fx, fy := float64(x), float64(y)
		if ctx.Scaled {
			fx = animation.LerpFloat64(cx, fx, ctx.Scale)
			fy = animation.LerpFloat64(cy, fy, ctx.Scale)
		}
		fx, fy = fx*p.scale, fy*p.scale
		return float32(fx) + float32(ctx.Position.X), float32(fy) + float32(ctx.Position.Y)
	}
	bounds := p.path.transformedBounds(transform).Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}
	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	p.path.replay(r, func(x, y float32) (float32, float32) {
		tx, ty := transform(x, y)
		return tx - ox, ty - oy
	})
	fill := image.NewUniform(PreviewColorFromTextColor(ctx.textColor()))
	r.Draw(dst, bounds, fill, image.Point{})
}
