package emoji

import (
	"image"

	"golang.org/x/image/draw"
)

// Margins pads an emoji image inside its glyph box.
type Margins struct {
	Left, Top, Right, Bottom int
}

// ImageEmoji is a static emoji backed by a single image.
type ImageEmoji struct {
	entityData string
	image      *image.RGBA
	padding    Margins
	colored    bool
}

func NewImageEmoji(entityData string, img *image.RGBA, padding Margins, colored bool) *ImageEmoji {
	return &ImageEmoji{entityData: entityData, image: img, padding: padding, colored: colored}
}

func (e *ImageEmoji) Width() int {
	return e.padding.Left + e.image.Rect.Dx() + e.padding.Right
}

func (e *ImageEmoji) EntityData() string        { return e.entityData }
func (e *ImageEmoji) Unload()                   {}
func (e *ImageEmoji) Ready() bool               { return true }
func (e *ImageEmoji) ReadyInDefaultState() bool { return true }

func (e *ImageEmoji) Paint(dst draw.Image, ctx *Context) {
	ctx.Internal.Colorized = e.colored
	origin := ctx.Position.Add(image.Pt(e.padding.Left, e.padding.Top))
	rect := image.Rectangle{Min: origin, Max: origin.Add(e.image.Rect.Size())}
	paintScaledImage(dst, rect, Frame{Image: e.image}, ctx)
}

// DynamicImage is an image source that may change over time.
type DynamicImage interface {
	Image(size int) *image.RGBA
	// SubscribeToUpdates registers callback for changes; nil unsubscribes.
	SubscribeToUpdates(callback func())
}

// DynamicImageEmoji paints a DynamicImage, subscribing to its updates while
// it is painted.
type DynamicImageEmoji struct {
	entityData string
	image      DynamicImage
	repaint    func()
	padding    Margins
	size       int
	subscribed bool
}

func NewDynamicImageEmoji(entityData string, img DynamicImage, repaint func(), padding Margins, size int) *DynamicImageEmoji {
	return &DynamicImageEmoji{
		entityData: entityData,
		image:      img,
		repaint:    repaint,
		padding:    padding,
		size:       size,
	}
}

func (e *DynamicImageEmoji) Width() int {
	return e.padding.Left + e.size + e.padding.Right
}

func (e *DynamicImageEmoji) EntityData() string        { return e.entityData }
func (e *DynamicImageEmoji) Ready() bool               { return true }
func (e *DynamicImageEmoji) ReadyInDefaultState() bool { return true }

func (e *DynamicImageEmoji) Paint(dst draw.Image, ctx *Context) {
	if !e.subscribed {
		e.subscribed = true
		e.image.SubscribeToUpdates(e.repaint)
	}
	origin := ctx.Position.Add(image.Pt(e.padding.Left, e.padding.Top))
	rect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(e.size, e.size))}
	ctx.Internal.Colorized = false
	if img := e.image.Image(e.size); img != nil {
		paintScaledImage(dst, rect, Frame{Image: img}, ctx)
	}
}

func (e *DynamicImageEmoji) Unload() {
	if e.subscribed {
		e.subscribed = false
		e.image.SubscribeToUpdates(nil)
	}
}
