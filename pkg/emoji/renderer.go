package emoji

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/go-drift/emojicache/pkg/errors"
	"github.com/go-drift/emojicache/pkg/frames"
	"github.com/go-drift/emojicache/pkg/platform"
)

// RendererDescriptor configures a Renderer.
type RendererDescriptor struct {
	// Generator creates the frame source. It runs on the background task.
	Generator func() (frames.Generator, error)
	// Put receives the serialized cache once decoding finishes.
	Put func(blob []byte)
	// Loader creates a fresh Loader for the same entity, used on cancel and
	// unload. Required.
	Loader func() Loader
	// Size is the frame edge in pixels.
	Size int
	// EntityData labels error reports.
	EntityData string

	// Dispatch delivers decode results to the UI-affine context.
	// Nil means platform.Global.
	Dispatch platform.Dispatcher
	// Async runs decodes. Nil means a goroutine per decode.
	Async platform.Async
}

// Renderer decodes frames into a Cache one at a time in the background.
//
// At most one decode is outstanding. After each decoded frame the renderer
// either finishes, immediately requests the next frame when playback is
// within PreloadFrames of the decoded end, or parks the generator until a
// paint consumes the buffer.
type Renderer struct {
	cache     *Cache
	generator frames.Generator
	storage   *image.RGBA
	put       func([]byte)
	repaint   func()
	loader    func() Loader
	entity    string
	dispatch  platform.Dispatcher
	async     platform.Async
	finished  bool

	// generation is bumped on cancel so late decode results are dropped.
	generation uint64
}

// NewRenderer creates a renderer and starts decoding the first frame.
func NewRenderer(descriptor RendererDescriptor) *Renderer {
	if descriptor.Loader == nil {
		panic("emoji: RendererDescriptor.Loader is required")
	}
	r := &Renderer{
		cache:    NewCache(descriptor.Size),
		put:      descriptor.Put,
		loader:   descriptor.Loader,
		entity:   descriptor.EntityData,
		dispatch: platform.Or(descriptor.Dispatch),
		async:    platform.OrGo(descriptor.Async),
	}
	r.start(descriptor.Generator)
	return r
}

func (r *Renderer) start(factory func() (frames.Generator, error)) {
	generation, size, entity, dispatch := r.generation, r.cache.Size(), r.entity, r.dispatch
	r.async.Go(func() {
		defer errors.Recover("emoji.Renderer.start")
		if factory == nil {
			return
		}
		generator, err := factory()
		if err != nil {
			errors.Report(&errors.EmojiError{
				Op:     "emoji.Renderer.start",
				Kind:   errors.KindDecode,
				Entity: entity,
				Err:    err,
			})
			return
		}
		frame, ok := decodeNext(entity, generator, nil, size)
		if !ok || frame.Image == nil {
			return
		}
		dispatch.Post(func() {
			if r.generation == generation {
				r.frameReady(generator, frame)
			}
		})
	})
}

func (r *Renderer) renderNext(generator frames.Generator, storage *image.RGBA) {
	generation, size, entity, dispatch := r.generation, r.cache.Size(), r.entity, r.dispatch
	r.async.Go(func() {
		frame, ok := decodeNext(entity, generator, storage, size)
		if !ok {
			return
		}
		dispatch.Post(func() {
			if r.generation == generation {
				r.frameReady(generator, frame)
			}
		})
	})
}

// decodeNext runs on the background task. ok is false when the generator
// failed; the failure has been reported.
func decodeNext(entity string, generator frames.Generator, storage *image.RGBA, size int) (frame frames.Frame, ok bool) {
	defer errors.RecoverWithCallback("emoji.Renderer.decode", func(any) {
		frame, ok = frames.Frame{}, false
	})
	frame, err := generator.RenderNext(storage, size)
	if err != nil {
		errors.Report(&errors.EmojiError{
			Op:     "emoji.Renderer.decode",
			Kind:   errors.KindDecode,
			Entity: entity,
			Err:    err,
		})
		return frames.Frame{}, false
	}
	if frame.Image != nil && (frame.Image.Rect.Dx() != size || frame.Image.Rect.Dy() != size) {
		errors.Report(&errors.EmojiError{
			Op:     "emoji.Renderer.decode",
			Kind:   errors.KindDecode,
			Entity: entity,
			Err:    fmt.Errorf("frame is %v, want %dx%d", frame.Image.Rect.Size(), size, size),
		})
		return frames.Frame{}, false
	}
	return frame, true
}

func (r *Renderer) frameReady(generator frames.Generator, frame frames.Frame) {
	if frame.Image == nil {
		r.finish()
		return
	}
	if count := generator.Count(); count > 0 && r.cache.Frames() == 0 {
		r.cache.Reserve(min(count, maxStoredFrames))
	}
	current := r.cache.CurrentFrame()
	total := r.cache.Frames()
	explicitRepaint := current == total
	r.cache.Add(frame.Duration, frame.Image)
	if explicitRepaint && r.repaint != nil {
		r.repaint()
	}
	switch {
	case frame.Duration == 0 || total+1 >= maxStoredFrames:
		r.finish()
	case current+PreloadFrames > total:
		r.renderNext(generator, frame.Image)
	default:
		r.generator = generator
		r.storage = frame.Image
	}
}

func (r *Renderer) finish() {
	r.finished = true
	r.generator = nil
	r.storage = nil
	r.cache.Finish()
	if r.put == nil {
		return
	}
	blob, err := r.cache.Serialize()
	if err != nil {
		errors.Report(&errors.EmojiError{
			Op:     "emoji.Renderer.finish",
			Kind:   errors.KindStorage,
			Entity: r.entity,
			Err:    err,
		})
		return
	}
	r.put(blob)
}

// Paint draws the current frame and resumes a parked decode when playback
// is about to catch up with the decoded frames.
func (r *Renderer) Paint(dst draw.Image, ctx *Context) PaintFrameResult {
	result := r.cache.PaintCurrentFrame(dst, ctx)
	if r.generator != nil &&
		(!result.Painted || r.cache.CurrentFrame()+PreloadFrames >= r.cache.Frames()) {
		generator, storage := r.generator, r.storage
		r.generator, r.storage = nil, nil
		r.renderNext(generator, storage)
	}
	return result
}

// Ready returns the Cached state once decoding has finished. The renderer
// must not be used afterwards.
func (r *Renderer) Ready(entityData string) (*Cached, bool) {
	if !r.finished {
		return nil, false
	}
	return NewCached(entityData, r.loader, r.cache), true
}

// Cancel abandons decoding and returns a fresh Loader for the entity.
func (r *Renderer) Cancel() Loader {
	r.generation++
	r.generator = nil
	r.storage = nil
	return r.loader()
}

func (r *Renderer) CanMakePreview() bool {
	return r.cache.Frames() > 0
}

func (r *Renderer) MakePreview() Preview {
	return r.cache.MakePreview()
}

func (r *Renderer) ReadyInDefaultState() bool {
	return r.cache.ReadyInDefaultState()
}

// SetRepaintCallback sets the callback invoked when the first frame that
// playback is waiting for arrives.
func (r *Renderer) SetRepaintCallback(repaint func()) {
	r.repaint = repaint
}

// TakeCache returns the cache, leaving the renderer with an empty one.
func (r *Renderer) TakeCache() *Cache {
	cache := r.cache
	r.cache = NewCache(cache.Size())
	return cache
}
