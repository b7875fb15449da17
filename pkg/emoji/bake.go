package emoji

import (
	"errors"
	"image"

	"github.com/go-drift/emojicache/pkg/frames"
)

// ErrNoFrames is returned by Bake when the generator produces nothing.
var ErrNoFrames = errors.New("emoji: generator produced no frames")

// Bake decodes gen synchronously into a finished cache, stopping on the
// same conditions as a Renderer: a zero-duration frame, the largest frame
// count a blob can hold or an exhausted generator.
func Bake(gen frames.Generator, size int) (*Cache, error) {
	cache := NewCache(size)
	var storage *image.RGBA
	for {
		frame, err := gen.RenderNext(storage, size)
		if err != nil {
			return nil, err
		}
		if frame.Image == nil {
			break
		}
		if count := gen.Count(); count > 0 && cache.Frames() == 0 {
			cache.Reserve(min(count, maxStoredFrames))
		}
		cache.Add(frame.Duration, frame.Image)
		storage = frame.Image
		if frame.Duration == 0 || cache.Frames() >= maxStoredFrames {
			break
		}
	}
	if cache.Frames() == 0 {
		return nil, ErrNoFrames
	}
	cache.Finish()
	return cache, nil
}
