package emoji

import (
	"fmt"
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

const (
	// MaxFrames bounds the frame count of a blob: a valid blob holds fewer.
	MaxFrames = 180
	// PreloadFrames is how far the renderer tries to decode ahead of playback.
	PreloadFrames = 3

	perRow = 16

	// maxStoredFrames is where decoding stops so the result still loads.
	maxStoredFrames = MaxFrames - 1
)

// Cache stores the decoded frames of one animated emoji.
//
// Frames are appended into strips of perRow frames stacked vertically. Finish
// repacks the strips into one grid image with perRow columns; after that
// only the playback position changes.
type Cache struct {
	images    []*image.RGBA
	durations []uint16
	full      *image.RGBA
	shown     int64
	frame     int
	size      int
	frames    int
	finished  bool
}

// NewCache creates an empty cache of size x size frames.
func NewCache(size int) *Cache {
	return &Cache{size: size}
}

func (c *Cache) Size() int {
	return c.size
}

func (c *Cache) Frames() int {
	return c.frames
}

func (c *Cache) Finished() bool {
	return c.finished
}

// CurrentFrame returns the playback index.
func (c *Cache) CurrentFrame() int {
	return c.frame
}

// Duration returns the display duration of frame index in milliseconds.
func (c *Cache) Duration(index int) int64 {
	return int64(c.durations[index])
}

// ReadyInDefaultState reports whether the first frame is ready and showing.
func (c *Cache) ReadyInDefaultState() bool {
	return c.frames > 0 && c.frame == 0
}

// Frame returns a view of frame index without copying pixels.
func (c *Cache) Frame(index int) Frame {
	if index < 0 || index >= c.frames {
		panic(fmt.Sprintf("emoji: Cache.Frame index %d out of range [0, %d)", index, c.frames))
	}
	row := index / perRow
	inrow := index % perRow
	if c.finished {
		return Frame{
			Image:  c.full,
			Source: image.Rect(inrow*c.size, row*c.size, (inrow+1)*c.size, (row+1)*c.size),
		}
	}
	return Frame{
		Image:  c.images[row],
		Source: image.Rect(0, inrow*c.size, c.size, (inrow+1)*c.size),
	}
}

// MakePreview copies the first frame into an exact image preview.
func (c *Cache) MakePreview() Preview {
	if c.frames == 0 {
		panic("emoji: Cache.MakePreview on empty cache")
	}
	first := c.Frame(0)
	img := image.NewRGBA(image.Rect(0, 0, c.size, c.size))
	draw.Draw(img, img.Rect, first.Image, first.Source.Min, draw.Src)
	return ImagePreview(img, true)
}

func (c *Cache) newStrip() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, c.size, c.size*perRow))
}

// Reserve preallocates strips for at least frames frames.
func (c *Cache) Reserve(frames int) {
	if c.finished {
		panic("emoji: Cache.Reserve after Finish")
	}
	rows := (frames + perRow - 1) / perRow
	for len(c.images) < rows {
		c.images = append(c.images, c.newStrip())
	}
	if extra := frames - len(c.durations); extra > 0 {
		c.durations = slices.Grow(c.durations, extra)
	}
}

// Add appends a size x size frame shown for duration milliseconds. The
// duration is clamped to [0, 65535].
func (c *Cache) Add(duration int64, frame *image.RGBA) {
	if c.finished {
		panic("emoji: Cache.Add after Finish")
	}
	if frame == nil || frame.Rect.Dx() != c.size || frame.Rect.Dy() != c.size {
		panic(fmt.Sprintf("emoji: Cache.Add frame size mismatch, want %dx%d", c.size, c.size))
	}
	row := c.frames / perRow
	inrow := c.frames % perRow
	for len(c.images) <= row {
		c.images = append(c.images, c.newStrip())
	}
	dst := c.images[row]
	perLine := c.size * 4
	for y := 0; y < c.size; y++ {
		d := dst.PixOffset(0, inrow*c.size+y)
		s := frame.PixOffset(frame.Rect.Min.X, frame.Rect.Min.Y+y)
		copy(dst.Pix[d:d+perLine], frame.Pix[s:s+perLine])
	}
	c.frames++
	c.durations = append(c.durations, uint16(min(max(duration, 0), math.MaxUint16)))
}

// Finish repacks the frames into a single grid and freezes the frame count.
// If playback had run past the last frame it restarts from frame 0.
func (c *Cache) Finish() {
	if c.finished {
		panic("emoji: Cache.Finish called twice")
	}
	c.finished = true
	if c.frame == c.frames {
		c.frame = 0
	}
	rows := (c.frames + perRow - 1) / perRow
	columns := min(c.frames, perRow)
	c.full = image.NewRGBA(image.Rect(0, 0, columns*c.size, rows*c.size))
	perLine := c.size * 4
	for index := 0; index < c.frames; index++ {
		row, inrow := index/perRow, index%perRow
		src := c.images[row]
		for y := 0; y < c.size; y++ {
			s := src.PixOffset(0, inrow*c.size+y)
			d := c.full.PixOffset(inrow*c.size, row*c.size+y)
			copy(c.full.Pix[d:d+perLine], src.Pix[s:s+perLine])
		}
	}
	// Cells after the last frame keep the zeroed pixels of the new image.
	c.images = nil
}

// PaintCurrentFrame advances playback according to ctx.Now and draws the
// frame to show at ctx.Position.
func (c *Cache) PaintCurrentFrame(dst draw.Image, ctx *Context) PaintFrameResult {
	if c.frames == 0 {
		return PaintFrameResult{}
	}
	first := ctx.Internal.ForceFirstFrame
	last := ctx.Internal.ForceLastFrame
	if !first && !last {
		now := ctx.Now
		if ctx.Paused {
			now = 0
		}
		finishes := int64(0)
		if now != 0 {
			finishes = c.currentFrameFinishes()
		}
		if finishes != 0 && now >= finishes {
			c.frame++
			if c.finished && c.frame == c.frames {
				c.frame = 0
				if ctx.Internal.OverrideFirstWithLastFrame {
					last = true
				}
			}
			c.shown = now
		} else if c.shown == 0 {
			c.shown = now
		}
	}
	index := min(c.frame, c.frames-1)
	switch {
	case first:
		index = 0
	case last:
		index = c.frames - 1
	}
	rect := image.Rectangle{Min: ctx.Position, Max: ctx.Position.Add(image.Pt(c.size, c.size))}
	paintScaledImage(dst, rect, c.Frame(index), ctx)

	next := int64(0)
	if !first {
		next = c.currentFrameFinishes()
	}
	result := PaintFrameResult{Painted: true, Next: next}
	if next != 0 {
		result.Duration = next - c.shown
	}
	return result
}

func (c *Cache) currentFrameFinishes() int64 {
	if c.shown == 0 || c.frame >= len(c.durations) {
		return 0
	}
	if duration := c.durations[c.frame]; duration != 0 {
		return c.shown + int64(duration)
	}
	return 0
}
