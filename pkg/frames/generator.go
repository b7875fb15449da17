// Package frames decodes animation sources into square premultiplied RGBA
// frames, one frame at a time.
//
// A [Generator] is pull-based and not safe for concurrent use: the emoji
// renderer hands it to exactly one background task at a time.
package frames

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"

	// Decoders for still sources.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned when a source cannot be decoded.
var ErrUnsupported = errors.New("frames: unsupported source")

// Frame is a single decoded animation frame.
type Frame struct {
	// Duration is how long the frame is shown, in milliseconds.
	// Zero means the source is a still image.
	Duration int64
	// Image holds size x size premultiplied pixels. Nil means nothing was
	// produced: the source is exhausted or failed.
	Image *image.RGBA
	// Last reports whether this is the final frame of the source.
	Last bool
}

// Generator produces frames from an animation source.
type Generator interface {
	// Count returns the number of frames, or 0 if unknown.
	Count() int
	// Rate returns frames per second, or 0 if unknown.
	Rate() float64
	// RenderNext advances to the next frame and renders it at size x size,
	// keeping the aspect ratio. storage is reused when it has the right
	// dimensions.
	RenderNext(storage *image.RGBA, size int) (Frame, error)
	// RenderCurrent renders the current frame again without advancing.
	RenderCurrent(storage *image.RGBA, size int) (Frame, error)
	// JumpToStart rewinds to the first frame.
	JumpToStart()
}

// NewGenerator sniffs data and returns a GIF generator for animated GIFs and
// a still image generator for everything else image.Decode understands.
func NewGenerator(data []byte) (Generator, error) {
	if bytes.HasPrefix(data, []byte("GIF8")) {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if len(g.Image) > 1 {
			return NewGIFGenerator(g), nil
		}
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return NewImageGenerator(data), nil
}

// GoodStorage reports whether storage can hold a size x size frame.
func GoodStorage(storage *image.RGBA, size int) bool {
	return storage != nil &&
		storage.Rect.Min == image.Point{} &&
		storage.Rect.Dx() == size &&
		storage.Rect.Dy() == size &&
		storage.Stride == size*4
}

// CreateStorage allocates a transparent size x size frame.
func CreateStorage(size int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, size, size))
}

func prepareStorage(storage *image.RGBA, size int) *image.RGBA {
	if !GoodStorage(storage, size) {
		return CreateStorage(size)
	}
	clear(storage.Pix)
	return storage
}
