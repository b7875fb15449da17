package frames

import (
	"bytes"
	"fmt"
	"image"
)

// ImageGenerator turns a still image into a single frame with zero duration.
type ImageGenerator struct {
	data  []byte
	image image.Image
}

// NewImageGenerator creates a generator decoding data on first render.
func NewImageGenerator(data []byte) *ImageGenerator {
	return &ImageGenerator{data: data}
}

// NewImageGeneratorFromImage creates a generator over an already decoded image.
func NewImageGeneratorFromImage(img image.Image) *ImageGenerator {
	return &ImageGenerator{image: img}
}

func (g *ImageGenerator) Count() int {
	return 1
}

func (g *ImageGenerator) Rate() float64 {
	return 1
}

func (g *ImageGenerator) RenderNext(storage *image.RGBA, size int) (Frame, error) {
	return g.RenderCurrent(storage, size)
}

func (g *ImageGenerator) RenderCurrent(storage *image.RGBA, size int) (Frame, error) {
	if g.image == nil && len(g.data) > 0 {
		img, _, err := image.Decode(bytes.NewReader(g.data))
		if err != nil {
			return Frame{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		g.image = img
		g.data = nil
	}
	if g.image == nil {
		return Frame{}, nil
	}
	result := prepareStorage(storage, size)
	scaleInto(result, g.image, size)
	return Frame{Image: result, Last: true}, nil
}

func (g *ImageGenerator) JumpToStart() {}
