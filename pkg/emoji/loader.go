package emoji

import (
	"golang.org/x/image/draw"
)

// Loader produces the animation for one entity, either as a finished cache
// read from storage or as a live decode pipeline.
//
// Load's callback must be invoked on the UI-affine context. A Loader is
// owned by exactly one state at a time.
type Loader interface {
	EntityData() string
	Load(done func(LoadResult))
	Loading() bool
	Cancel()
	Preview() Preview
}

// LoadResultKind discriminates LoadResult.
type LoadResultKind uint8

const (
	ResultCaching LoadResultKind = iota + 1
	ResultCached
)

// LoadResult is either a Caching payload or a Cached payload.
type LoadResult struct {
	Kind    LoadResultKind
	Caching *Caching
	Cached  *Cached
}

// CachingResult wraps a live decode pipeline.
func CachingResult(c *Caching) LoadResult {
	return LoadResult{Kind: ResultCaching, Caching: c}
}

// CachedResult wraps a finished cache.
func CachedResult(c *Cached) LoadResult {
	return LoadResult{Kind: ResultCached, Cached: c}
}

// Caching is the state of an instance whose frames are being decoded.
type Caching struct {
	Renderer   *Renderer
	EntityData string
	Preview    Preview
}

// Cached is the state of an instance with a finished cache.
type Cached struct {
	unloader   func() Loader
	cache      *Cache
	entityData string
}

// NewCached wraps a finished cache. unloader recreates a Loader on unload.
func NewCached(entityData string, unloader func() Loader, cache *Cache) *Cached {
	return &Cached{unloader: unloader, cache: cache, entityData: entityData}
}

func (c *Cached) EntityData() string {
	return c.entityData
}

func (c *Cached) Cache() *Cache {
	return c.cache
}

func (c *Cached) MakePreview() Preview {
	return c.cache.MakePreview()
}

func (c *Cached) Paint(dst draw.Image, ctx *Context) PaintFrameResult {
	return c.cache.PaintCurrentFrame(dst, ctx)
}

func (c *Cached) InDefaultState() bool {
	return c.cache.ReadyInDefaultState()
}

// Unload drops the frames and returns a Loading state keeping the first
// frame as preview.
func (c *Cached) Unload() *Loading {
	return NewLoading(c.unloader(), c.MakePreview())
}

// Loading is the state of an instance without decoded frames.
type Loading struct {
	loader    Loader
	preview   Preview
	requested bool

	// generation is bumped on cancel so stale load callbacks are dropped.
	generation uint64
}

// NewLoading creates a Loading state owning loader.
func NewLoading(loader Loader, preview Preview) *Loading {
	return &Loading{loader: loader, preview: preview}
}

func (l *Loading) EntityData() string {
	return l.loader.EntityData()
}

// Load asks the loader to start, once per load cycle. A Caching result
// inherits the best preview known so far.
func (l *Loading) Load(done func(LoadResult)) {
	if l.requested {
		return
	}
	l.requested = true
	generation := l.generation
	l.loader.Load(func(result LoadResult) {
		if l.generation != generation {
			return
		}
		if result.Kind == ResultCaching {
			if l.preview.Valid() {
				result.Caching.Preview = l.preview
			} else {
				result.Caching.Preview = l.loader.Preview()
			}
		}
		done(result)
	})
}

func (l *Loading) Loading() bool {
	return l.loader.Loading()
}

func (l *Loading) Paint(dst draw.Image, ctx *Context) {
	if !l.preview.Valid() {
		if preview := l.loader.Preview(); preview.Valid() {
			l.preview = preview
		}
	}
	l.preview.Paint(dst, ctx)
}

func (l *Loading) HasImagePreview() bool {
	return l.preview.IsImage()
}

func (l *Loading) ImagePreview() Preview {
	if l.preview.IsImage() {
		return l.preview
	}
	return Preview{}
}

// UpdatePreview replaces a non-image preview with an image one, or fills an
// empty preview from the loader or from preview.
func (l *Loading) UpdatePreview(preview Preview) {
	if !l.preview.IsImage() && preview.IsImage() {
		l.preview = preview
	} else if !l.preview.Valid() {
		if loaderPreview := l.loader.Preview(); loaderPreview.Valid() {
			l.preview = loaderPreview
		} else if preview.Valid() {
			l.preview = preview
		}
	}
}

// Cancel stops the loader and drops any pending load callback.
func (l *Loading) Cancel() {
	l.loader.Cancel()
	l.generation++
	l.requested = false
}
