package testing

import (
	"errors"
	"image"
	"image/color"

	"github.com/go-drift/emojicache/pkg/frames"
)

// ErrGeneratorFailed is returned by a SequenceGenerator configured to fail.
var ErrGeneratorFailed = errors.New("emojitest: generator failed")

// SequenceGenerator yields one solid frame per configured duration and then
// an empty frame. Frame i is filled with FrameColor(i).
type SequenceGenerator struct {
	durations []int64
	index     int
	// KnownCount makes Count report the number of frames instead of 0.
	KnownCount bool
	// FailAt makes RenderNext return ErrGeneratorFailed at that index.
	// Negative disables failures.
	FailAt int
	// Renders counts RenderNext calls.
	Renders int
}

// NewSequenceGenerator creates a generator producing len(durations) frames.
// The size argument is informational; frames are rendered at the size
// requested by the caller.
func NewSequenceGenerator(size int, durations ...int64) *SequenceGenerator {
	_ = size
	return &SequenceGenerator{durations: durations, FailAt: -1}
}

// FrameColor returns the fill color of frame i.
func FrameColor(i int) color.RGBA {
	return color.RGBA{R: uint8(10 + 20*i), G: uint8(255 - 10*i), B: uint8(i), A: 255}
}

func (g *SequenceGenerator) Count() int {
	if g.KnownCount {
		return len(g.durations)
	}
	return 0
}

func (g *SequenceGenerator) Rate() float64 {
	return 0
}

func (g *SequenceGenerator) RenderNext(storage *image.RGBA, size int) (frames.Frame, error) {
	g.Renders++
	if g.index == g.FailAt {
		return frames.Frame{}, ErrGeneratorFailed
	}
	if g.index >= len(g.durations) {
		return frames.Frame{}, nil
	}
	frame := g.render(g.index, storage, size)
	g.index++
	return frame, nil
}

func (g *SequenceGenerator) RenderCurrent(storage *image.RGBA, size int) (frames.Frame, error) {
	if len(g.durations) == 0 {
		return frames.Frame{}, nil
	}
	return g.render(max(g.index-1, 0), storage, size), nil
}

func (g *SequenceGenerator) JumpToStart() {
	g.index = 0
}

func (g *SequenceGenerator) render(index int, storage *image.RGBA, size int) frames.Frame {
	if !frames.GoodStorage(storage, size) {
		storage = frames.CreateStorage(size)
	}
	c := FrameColor(index)
	for p := 0; p < len(storage.Pix); p += 4 {
		storage.Pix[p+0] = c.R
		storage.Pix[p+1] = c.G
		storage.Pix[p+2] = c.B
		storage.Pix[p+3] = c.A
	}
	return frames.Frame{
		Duration: g.durations[index],
		Image:    storage,
		Last:     index == len(g.durations)-1,
	}
}
