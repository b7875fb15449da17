// Package loader provides the standard [emoji.Loader]: it reuses a persisted
// cache when one is stored for the entity and size, and otherwise fetches the
// source and starts a background decode that persists its result.
package loader

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/go-drift/emojicache/pkg/emoji"
	"github.com/go-drift/emojicache/pkg/errors"
	"github.com/go-drift/emojicache/pkg/frames"
	"github.com/go-drift/emojicache/pkg/platform"
	"github.com/go-drift/emojicache/pkg/store"
)

// Options configures a Loader.
type Options struct {
	EntityData string
	// Size is the frame edge in pixels.
	Size int
	// Source provides the encoded animation. Required.
	Source Source
	// Store holds serialized caches. Nil disables persistence.
	Store store.Store
	// Dispatch delivers results to the UI-affine context. Nil means
	// platform.Global.
	Dispatch platform.Dispatcher
	// Pool runs lookups, fetches and decodes. Nil means a goroutine each.
	Pool platform.Async
	// Preview is shown until frames are ready.
	Preview emoji.Preview
	// Group deduplicates concurrent fetches of the same entity across
	// loaders. Nil disables deduplication.
	Group *singleflight.Group
}

// Loader loads one entity at one size. Its methods must be called on the
// UI-affine context.
type Loader struct {
	opts     Options
	dispatch platform.Dispatcher
	pool     platform.Async
	cancel   context.CancelFunc
	loading  bool

	// generation is bumped on cancel so late results are dropped.
	generation uint64
}

var _ emoji.Loader = (*Loader)(nil)

// New creates a Loader. It panics without a Source.
func New(opts Options) *Loader {
	if opts.Source == nil {
		panic("loader: Options.Source is required")
	}
	return &Loader{
		opts:     opts,
		dispatch: platform.Or(opts.Dispatch),
		pool:     platform.OrGo(opts.Pool),
	}
}

// Factory returns a function creating loaders that share base options,
// suitable for manager.Options.LoaderFactory.
func Factory(base Options) func(entityData string, size int) emoji.Loader {
	if base.Group == nil {
		base.Group = &singleflight.Group{}
	}
	return func(entityData string, size int) emoji.Loader {
		opts := base
		opts.EntityData = entityData
		opts.Size = size
		return New(opts)
	}
}

func (l *Loader) EntityData() string {
	return l.opts.EntityData
}

func (l *Loader) Preview() emoji.Preview {
	return l.opts.Preview
}

// Loading reports whether a load is in flight.
func (l *Loader) Loading() bool {
	return l.loading
}

// Key returns the storage key of the loaded entity.
func (l *Loader) Key() string {
	return store.Key(l.opts.EntityData, l.opts.Size)
}

// Load starts loading unless a load is already in flight. done runs on the
// UI-affine context with either a Cached or a Caching result. Nothing is
// delivered when the source cannot be fetched or decoded.
func (l *Loader) Load(done func(emoji.LoadResult)) {
	if l.loading {
		return
	}
	l.loading = true
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	generation := l.generation
	opts := l.opts

	// post runs fn on the UI-affine context unless the load was cancelled.
	post := func(fn func()) {
		l.dispatch.Post(func() {
			if l.generation != generation {
				return
			}
			l.loading = false
			l.cancel = nil
			cancel()
			fn()
		})
	}

	l.pool.Go(func() {
		defer errors.Recover("loader.Load")

		if cache, ok := readCached(opts); ok {
			post(func() {
				done(emoji.CachedResult(emoji.NewCached(opts.EntityData, l.unloader, cache)))
			})
			return
		}

		data, err := fetch(ctx, opts)
		if err != nil {
			if ctx.Err() == nil {
				errors.Report(&errors.EmojiError{
					Op:     "loader.fetch",
					Kind:   errors.KindFetch,
					Entity: opts.EntityData,
					Err:    err,
				})
			}
			post(func() {})
			return
		}
		post(func() {
			done(emoji.CachingResult(&emoji.Caching{
				Renderer:   l.newRenderer(data),
				EntityData: opts.EntityData,
			}))
		})
	})
}

// Cancel abandons the load in flight, if any.
func (l *Loader) Cancel() {
	l.generation++
	l.loading = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) unloader() emoji.Loader {
	return New(l.opts)
}

func (l *Loader) newRenderer(data []byte) *emoji.Renderer {
	opts := l.opts
	return emoji.NewRenderer(emoji.RendererDescriptor{
		Generator: func() (frames.Generator, error) {
			return frames.NewGenerator(data)
		},
		Put:        l.persist,
		Loader:     l.unloader,
		Size:       opts.Size,
		EntityData: opts.EntityData,
		Dispatch:   l.dispatch,
		Async:      l.pool,
	})
}

// persist writes a finished blob in the background.
func (l *Loader) persist(blob []byte) {
	s := l.opts.Store
	if s == nil {
		return
	}
	key, entity := l.Key(), l.opts.EntityData
	l.pool.Go(func() {
		if err := s.Put(key, blob); err != nil {
			errors.Report(&errors.EmojiError{
				Op:     "loader.persist",
				Kind:   errors.KindStorage,
				Entity: entity,
				Err:    err,
			})
		}
	})
}

// readCached returns the stored cache for opts. A blob that fails
// validation is reported and deleted.
func readCached(opts Options) (*emoji.Cache, bool) {
	if opts.Store == nil {
		return nil, false
	}
	key := store.Key(opts.EntityData, opts.Size)
	blob, err := opts.Store.Get(key)
	if err != nil {
		if !stderrors.Is(err, store.ErrNotFound) {
			errors.Report(&errors.EmojiError{
				Op:     "loader.read",
				Kind:   errors.KindStorage,
				Entity: opts.EntityData,
				Err:    err,
			})
		}
		return nil, false
	}
	cache, err := emoji.FromSerialized(blob, opts.Size)
	if err != nil {
		errors.Report(&errors.EmojiError{
			Op:     "loader.read",
			Kind:   errors.KindCorrupt,
			Entity: opts.EntityData,
			Err:    err,
		})
		if err := opts.Store.Delete(key); err != nil {
			errors.Report(&errors.EmojiError{
				Op:     "loader.read",
				Kind:   errors.KindStorage,
				Entity: opts.EntityData,
				Err:    err,
			})
		}
		return nil, false
	}
	return cache, true
}

func fetch(ctx context.Context, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Group == nil {
		return opts.Source.Fetch(ctx, opts.EntityData)
	}
	// The shared fetch outlives any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	results := opts.Group.DoChan(opts.EntityData, func() (any, error) {
		return opts.Source.Fetch(shared, opts.EntityData)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		data, ok := res.Val.([]byte)
		if !ok {
			return nil, fmt.Errorf("loader: fetch returned %T", res.Val)
		}
		return data, nil
	}
}
