package emoji

import (
	"fmt"

	"golang.org/x/image/draw"

	"github.com/go-drift/emojicache/pkg/animation"
)

// StateKind names the state an Instance is in.
type StateKind uint8

const (
	StateLoading StateKind = iota
	StateCaching
	StateCached
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateCaching:
		return "caching"
	case StateCached:
		return "cached"
	default:
		return fmt.Sprintf("StateKind(%d)", uint8(k))
	}
}

// state holds exactly one of its payloads, selected by kind.
type state struct {
	kind    StateKind
	loading *Loading
	caching *Caching
	cached  *Cached
}

func loadingState(l *Loading) state { return state{kind: StateLoading, loading: l} }
func cachingState(c *Caching) state { return state{kind: StateCaching, caching: c} }
func cachedState(c *Cached) state   { return state{kind: StateCached, cached: c} }

func (s state) unexpected() string {
	return fmt.Sprintf("emoji: unexpected instance state %v", s.kind)
}

// Instance is the shared state of one animated emoji.
type Instance struct {
	state        state
	usage        map[*Object]struct{}
	repaintLater func(*Instance, RepaintRequest)
	colored      bool
}

// NewInstance creates an Instance in the Loading state. repaintLater
// schedules future repaints; a zero RepaintRequest cancels them.
func NewInstance(loading *Loading, repaintLater func(*Instance, RepaintRequest)) *Instance {
	if repaintLater == nil {
		repaintLater = func(*Instance, RepaintRequest) {}
	}
	return &Instance{
		state:        loadingState(loading),
		usage:        make(map[*Object]struct{}),
		repaintLater: repaintLater,
	}
}

// State returns the current state kind.
func (i *Instance) State() StateKind {
	return i.state.kind
}

// Usage returns the number of registered Objects.
func (i *Instance) Usage() int {
	return len(i.usage)
}

func (i *Instance) EntityData() string {
	switch s := i.state; s.kind {
	case StateLoading:
		return s.loading.EntityData()
	case StateCaching:
		return s.caching.EntityData
	case StateCached:
		return s.cached.EntityData()
	default:
		panic(s.unexpected())
	}
}

// Paint draws the instance in its current state, starting a load from
// Loading and promoting Caching to Cached once decoding finishes.
func (i *Instance) Paint(dst draw.Image, ctx *Context) {
	ctx.Internal.Colorized = i.colored

	switch s := i.state; s.kind {
	case StateLoading:
		s.loading.Paint(dst, ctx)
		i.load(s.loading)
	case StateCaching:
		result := s.caching.Renderer.Paint(dst, ctx)
		if !result.Painted {
			s.caching.Preview.Paint(dst, ctx)
		} else {
			if !s.caching.Preview.IsExactImage() {
				s.caching.Preview = s.caching.Renderer.MakePreview()
			}
			if result.Next > ctx.Now {
				i.repaintLater(i, RepaintRequest{When: result.Next, Duration: result.Duration})
			}
		}
		if cached, ok := s.caching.Renderer.Ready(s.caching.EntityData); ok {
			i.state = cachedState(cached)
		}
	case StateCached:
		result := s.cached.Paint(dst, ctx)
		if result.Next > ctx.Now {
			i.repaintLater(i, RepaintRequest{When: result.Next, Duration: result.Duration})
		}
	default:
		panic(s.unexpected())
	}
}

// Ready reports whether something better than a path preview can be shown.
// From Loading it starts a load if any Object is registered.
func (i *Instance) Ready() bool {
	switch s := i.state; s.kind {
	case StateLoading:
		if s.loading.HasImagePreview() {
			return true
		}
		if len(i.usage) > 0 {
			i.load(s.loading)
		}
		return false
	case StateCaching:
		return s.caching.Renderer.CanMakePreview()
	case StateCached:
		return true
	default:
		panic(s.unexpected())
	}
}

// ReadyInDefaultState reports whether the first frame is ready and showing.
func (i *Instance) ReadyInDefaultState() bool {
	switch s := i.state; s.kind {
	case StateLoading:
		if s.loading.HasImagePreview() {
			return true
		}
		i.load(s.loading)
		return false
	case StateCaching:
		return s.caching.Renderer.ReadyInDefaultState()
	case StateCached:
		return s.cached.InDefaultState()
	default:
		panic(s.unexpected())
	}
}

func (i *Instance) load(loading *Loading) {
	loading.Load(func(result LoadResult) {
		switch result.Kind {
		case ResultCaching:
			result.Caching.Renderer.SetRepaintCallback(i.Repaint)
			i.state = cachingState(result.Caching)
		case ResultCached:
			i.state = cachedState(result.Cached)
			i.Repaint()
		default:
			panic(fmt.Sprintf("emoji: unexpected load result kind %d", result.Kind))
		}
	})
}

func (i *Instance) HasImagePreview() bool {
	switch s := i.state; s.kind {
	case StateLoading:
		return s.loading.HasImagePreview()
	case StateCaching:
		return s.caching.Preview.IsImage()
	case StateCached:
		return true
	default:
		panic(s.unexpected())
	}
}

func (i *Instance) ImagePreview() Preview {
	switch s := i.state; s.kind {
	case StateLoading:
		return s.loading.ImagePreview()
	case StateCaching:
		if s.caching.Preview.IsImage() {
			return s.caching.Preview
		}
		return Preview{}
	case StateCached:
		return s.cached.MakePreview()
	default:
		panic(s.unexpected())
	}
}

// UpdatePreview offers a better preview obtained elsewhere.
func (i *Instance) UpdatePreview(preview Preview) {
	switch s := i.state; s.kind {
	case StateLoading:
		s.loading.UpdatePreview(preview)
	case StateCaching:
		if (!s.caching.Preview.IsImage() && preview.IsImage()) ||
			(!s.caching.Preview.Valid() && preview.Valid()) {
			s.caching.Preview = preview
		}
	case StateCached:
	default:
		panic(s.unexpected())
	}
}

// SetColored makes the instance paint tinted with the text color.
func (i *Instance) SetColored() {
	if i.colored {
		return
	}
	i.colored = true
	if i.Ready() {
		i.repaintLater(i, RepaintRequest{When: animation.Millis() + 1})
	}
}

// Colored reports whether SetColored was called.
func (i *Instance) Colored() bool {
	return i.colored
}

// Repaint asks every registered Object to repaint.
func (i *Instance) Repaint() {
	for object := range i.usage {
		object.Repaint()
	}
}

// UnloadAll deregisters every consumer, returning the instance to Loading.
func (i *Instance) UnloadAll() {
	for object := range i.usage {
		object.Unload()
	}
}

// IncrementUsage registers object as a consumer.
func (i *Instance) IncrementUsage(object *Object) {
	i.usage[object] = struct{}{}
}

// DecrementUsage deregisters object. When no consumer is left the instance
// returns to Loading, cancelling decoding or dropping the cached frames.
func (i *Instance) DecrementUsage(object *Object) {
	delete(i.usage, object)
	if len(i.usage) > 0 {
		return
	}
	switch s := i.state; s.kind {
	case StateLoading:
		s.loading.Cancel()
	case StateCaching:
		i.state = loadingState(NewLoading(s.caching.Renderer.Cancel(), s.caching.Preview))
	case StateCached:
		i.state = loadingState(s.cached.Unload())
	default:
		panic(s.unexpected())
	}
	i.repaintLater(i, RepaintRequest{})
}
