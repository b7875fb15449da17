// Package manager owns the animated emoji instances of one host: it shares
// one Instance per entity between consumers and turns the instances' repaint
// requests into timed repaints on the UI-affine context.
package manager

import (
	"time"

	"github.com/go-drift/emojicache/pkg/animation"
	"github.com/go-drift/emojicache/pkg/emoji"
	"github.com/go-drift/emojicache/pkg/platform"
)

// DefaultSize is the frame edge used when Options.Size is zero.
const DefaultSize = 100

// Options configures a Manager.
type Options struct {
	// LoaderFactory creates the loader for an entity. Required.
	LoaderFactory func(entityData string, size int) emoji.Loader
	// Dispatch runs timer-driven repaints. Nil means platform.Global.
	Dispatch platform.Dispatcher
	// Size is the frame edge in pixels.
	Size int
	// Padding is added on both sides of every emoji.
	Padding int
	// Now returns the paint clock. Nil means animation.Millis.
	Now func() int64
}

// Manager must be used from the UI-affine context only.
type Manager struct {
	opts      Options
	dispatch  platform.Dispatcher
	now       func() int64
	instances map[string]*emoji.Instance
	repaints  map[*emoji.Instance]emoji.RepaintRequest

	timer     *time.Timer
	timerWhen int64
	timerGen  uint64
}

// New creates a Manager. It panics without a LoaderFactory.
func New(opts Options) *Manager {
	if opts.LoaderFactory == nil {
		panic("manager: Options.LoaderFactory is required")
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	now := opts.Now
	if now == nil {
		now = animation.Millis
	}
	return &Manager{
		opts:      opts,
		dispatch:  platform.Or(opts.Dispatch),
		now:       now,
		instances: make(map[string]*emoji.Instance),
		repaints:  make(map[*emoji.Instance]emoji.RepaintRequest),
	}
}

// Size returns the frame edge in pixels.
func (m *Manager) Size() int {
	return m.opts.Size
}

// Create returns a new consumer handle for entityData. repaint is called
// whenever the emoji has something new to show.
func (m *Manager) Create(entityData string, repaint func()) *emoji.Object {
	return emoji.NewObject(m.instance(entityData), m.opts.Size+2*m.opts.Padding, repaint)
}

// Instance returns the shared instance for entityData, if one was created.
func (m *Manager) Instance(entityData string) (*emoji.Instance, bool) {
	instance, ok := m.instances[entityData]
	return instance, ok
}

// SetColored makes every consumer of entityData paint tinted with its text
// color.
func (m *Manager) SetColored(entityData string) {
	m.instance(entityData).SetColored()
}

func (m *Manager) instance(entityData string) *emoji.Instance {
	if instance, ok := m.instances[entityData]; ok {
		return instance
	}
	loading := emoji.NewLoading(m.opts.LoaderFactory(entityData, m.opts.Size), emoji.Preview{})
	instance := emoji.NewInstance(loading, m.repaintLater)
	m.instances[entityData] = instance
	return instance
}

// repaintLater records request for instance. A zero request cancels;
// otherwise the earliest pending time wins.
func (m *Manager) repaintLater(instance *emoji.Instance, request emoji.RepaintRequest) {
	if request.When == 0 {
		delete(m.repaints, instance)
	} else if pending, ok := m.repaints[instance]; !ok || request.When < pending.When {
		m.repaints[instance] = request
	}
	m.arm()
}

// NextRepaint returns the earliest pending repaint time, or zero.
func (m *Manager) NextRepaint() int64 {
	next := int64(0)
	for _, request := range m.repaints {
		if next == 0 || request.When < next {
			next = request.When
		}
	}
	return next
}

// RepaintDue repaints every instance whose request is due at now and
// returns how many were repainted.
func (m *Manager) RepaintDue(now int64) int {
	var due []*emoji.Instance
	for instance, request := range m.repaints {
		if request.When <= now {
			due = append(due, instance)
		}
	}
	for _, instance := range due {
		delete(m.repaints, instance)
	}
	for _, instance := range due {
		instance.Repaint()
	}
	m.arm()
	return len(due)
}

func (m *Manager) arm() {
	next := m.NextRepaint()
	if next == 0 {
		m.stopTimer()
		return
	}
	if m.timer != nil && m.timerWhen == next {
		return
	}
	m.stopTimer()
	m.timerGen++
	generation := m.timerGen
	m.timerWhen = next
	delay := time.Duration(max(next-m.now(), 0)) * time.Millisecond
	m.timer = time.AfterFunc(delay, func() {
		m.dispatch.Post(func() { m.fire(generation) })
	})
}

func (m *Manager) fire(generation uint64) {
	if generation == m.timerGen {
		m.timer = nil
		m.timerWhen = 0
	}
	m.RepaintDue(m.now())
}

func (m *Manager) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
		m.timerWhen = 0
	}
}

// Clear unloads every object still registered with the manager's
// instances, forgets all instances and cancels pending repaints.
func (m *Manager) Clear() {
	for _, instance := range m.instances {
		instance.UnloadAll()
	}
	clear(m.instances)
	clear(m.repaints)
	m.stopTimer()
}
