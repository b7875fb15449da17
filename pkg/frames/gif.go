package frames

import (
	"image"
	"image/gif"

	"golang.org/x/image/draw"
)

// Browsers treat GIF delays of 0 or 1 centiseconds as this value.
const defaultGIFDelay = 100

// GIFGenerator composes the frames of an animated GIF, honoring disposal
// methods, and scales them to the requested size.
type GIFGenerator struct {
	gif      *gif.GIF
	canvas   *image.RGBA
	previous *image.RGBA
	index    int
	current  int
}

// NewGIFGenerator creates a generator over a decoded GIF.
func NewGIFGenerator(g *gif.GIF) *GIFGenerator {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, frame := range g.Image {
			bounds = bounds.Union(frame.Bounds())
		}
	}
	return &GIFGenerator{
		gif:     g,
		canvas:  image.NewRGBA(bounds),
		current: -1,
	}
}

func (g *GIFGenerator) Count() int {
	return len(g.gif.Image)
}

func (g *GIFGenerator) Rate() float64 {
	total := int64(0)
	for i := range g.gif.Image {
		total += g.delay(i)
	}
	if total == 0 {
		return 0
	}
	return float64(len(g.gif.Image)) * 1000 / float64(total)
}

func (g *GIFGenerator) delay(index int) int64 {
	if index >= len(g.gif.Delay) || g.gif.Delay[index] <= 1 {
		return defaultGIFDelay
	}
	return int64(g.gif.Delay[index]) * 10
}

func (g *GIFGenerator) disposal(index int) byte {
	if index < 0 || index >= len(g.gif.Disposal) {
		return gif.DisposalNone
	}
	return g.gif.Disposal[index]
}

// RenderNext returns an empty frame once every frame has been rendered.
func (g *GIFGenerator) RenderNext(storage *image.RGBA, size int) (Frame, error) {
	if g.index >= len(g.gif.Image) {
		return Frame{}, nil
	}
	g.compose(g.index)
	g.current = g.index
	g.index++
	return g.render(storage, size), nil
}

func (g *GIFGenerator) RenderCurrent(storage *image.RGBA, size int) (Frame, error) {
	if g.current < 0 {
		return g.RenderNext(storage, size)
	}
	return g.render(storage, size), nil
}

func (g *GIFGenerator) JumpToStart() {
	clear(g.canvas.Pix)
	g.previous = nil
	g.index = 0
	g.current = -1
}

func (g *GIFGenerator) compose(index int) {
	if index > 0 {
		prev := g.gif.Image[index-1]
		switch g.disposal(index - 1) {
		case gif.DisposalBackground:
			draw.Draw(g.canvas, prev.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if g.previous != nil {
				copy(g.canvas.Pix, g.previous.Pix)
			}
		}
	}
	if g.disposal(index) == gif.DisposalPrevious {
		if g.previous == nil {
			g.previous = image.NewRGBA(g.canvas.Rect)
		}
		copy(g.previous.Pix, g.canvas.Pix)
	}
	frame := g.gif.Image[index]
	draw.Draw(g.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
}

func (g *GIFGenerator) render(storage *image.RGBA, size int) Frame {
	result := prepareStorage(storage, size)
	scaleInto(result, g.canvas, size)
	return Frame{
		Duration: g.delay(g.current),
		Image:    result,
		Last:     g.current == len(g.gif.Image)-1,
	}
}
