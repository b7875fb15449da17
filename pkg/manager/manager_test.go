package manager

import (
	"image"
	"testing"
	"time"

	"github.com/go-drift/emojicache/pkg/emoji"
	"github.com/go-drift/emojicache/pkg/platform"
	emojitest "github.com/go-drift/emojicache/pkg/testing"
)

// instantLoader delivers a baked cache as soon as it is asked to load.
type instantLoader struct {
	t      *testing.T
	entity string
	loads  *int
}

func (l *instantLoader) EntityData() string     { return l.entity }
func (l *instantLoader) Loading() bool          { return false }
func (l *instantLoader) Cancel()                {}
func (l *instantLoader) Preview() emoji.Preview { return emoji.Preview{} }

func (l *instantLoader) Load(done func(emoji.LoadResult)) {
	*l.loads++
	cache, err := emoji.Bake(emojitest.NewSequenceGenerator(4, 100, 100), 4)
	if err != nil {
		l.t.Fatal(err)
	}
	unloader := func() emoji.Loader { return &instantLoader{t: l.t, entity: l.entity, loads: l.loads} }
	done(emoji.CachedResult(emoji.NewCached(l.entity, unloader, cache)))
}

func newTestManager(t *testing.T, now *int64) (*Manager, *int) {
	t.Helper()
	loads := 0
	m := New(Options{
		LoaderFactory: func(entityData string, size int) emoji.Loader {
			return &instantLoader{t: t, entity: entityData, loads: &loads}
		},
		Dispatch: platform.NewLoop(),
		Size:     4,
		Padding:  2,
		Now:      func() int64 { return *now },
	})
	t.Cleanup(m.Clear)
	return m, &loads
}

func TestCreateSharesInstances(t *testing.T) {
	now := int64(1000)
	m, _ := newTestManager(t, &now)
	a := m.Create("party", nil)
	b := m.Create("party", nil)
	c := m.Create("wave", nil)

	if a == b {
		t.Error("each Create should return a new object")
	}
	first, ok := m.Instance("party")
	if !ok {
		t.Fatal("instance not registered")
	}
	second, _ := m.Instance("wave")
	if first == second {
		t.Error("entities must not share instances")
	}
	if a.Width() != 8 || c.EntityData() != "wave" {
		t.Errorf("Width=%d EntityData=%q", a.Width(), c.EntityData())
	}
	if _, ok := m.Instance("missing"); ok {
		t.Error("unknown entity reported")
	}
}

func TestNewDefaults(t *testing.T) {
	m := New(Options{LoaderFactory: func(string, int) emoji.Loader { return nil }})
	if m.Size() != DefaultSize {
		t.Errorf("Size = %d", m.Size())
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic without LoaderFactory")
		}
	}()
	New(Options{})
}

func TestRepaintScheduling(t *testing.T) {
	now := int64(1000)
	m, loads := newTestManager(t, &now)
	repaints := 0
	obj := m.Create("party", func() { repaints++ })

	obj.Ready()
	if *loads != 1 || repaints != 1 {
		t.Fatalf("ready load: loads=%d repaints=%d", *loads, repaints)
	}
	if !obj.Ready() {
		t.Fatal("instance should be ready once cached")
	}

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	obj.Paint(dst, &emoji.Context{Now: now})
	if got := m.NextRepaint(); got != 1100 {
		t.Fatalf("NextRepaint = %d, want 1100", got)
	}

	if n := m.RepaintDue(1050); n != 0 || repaints != 1 {
		t.Errorf("early RepaintDue repainted %d", n)
	}
	if n := m.RepaintDue(1100); n != 1 || repaints != 2 {
		t.Errorf("RepaintDue(1100) = %d, repaints = %d", n, repaints)
	}
	if m.NextRepaint() != 0 {
		t.Error("due request should be consumed")
	}
}

func TestRepaintKeepsEarliest(t *testing.T) {
	now := int64(0)
	m, _ := newTestManager(t, &now)
	m.Create("party", nil)
	instance, _ := m.Instance("party")

	m.repaintLater(instance, emoji.RepaintRequest{When: 500})
	m.repaintLater(instance, emoji.RepaintRequest{When: 800})
	if got := m.NextRepaint(); got != 500 {
		t.Errorf("NextRepaint = %d, want 500", got)
	}
	m.repaintLater(instance, emoji.RepaintRequest{When: 300})
	if got := m.NextRepaint(); got != 300 {
		t.Errorf("NextRepaint = %d, want 300", got)
	}
	m.repaintLater(instance, emoji.RepaintRequest{})
	if got := m.NextRepaint(); got != 0 {
		t.Errorf("zero request should cancel, NextRepaint = %d", got)
	}
	if m.timer != nil {
		t.Error("timer should be stopped with nothing pending")
	}
}

func TestUnloadCancelsRepaint(t *testing.T) {
	now := int64(1000)
	m, _ := newTestManager(t, &now)
	obj := m.Create("party", nil)
	obj.Paint(image.NewRGBA(image.Rect(0, 0, 4, 4)), &emoji.Context{Now: now})
	obj.Paint(image.NewRGBA(image.Rect(0, 0, 4, 4)), &emoji.Context{Now: now})
	if m.NextRepaint() == 0 {
		t.Fatal("expected a pending repaint")
	}
	obj.Unload()
	if m.NextRepaint() != 0 {
		t.Error("unload should cancel the pending repaint")
	}
	instance, _ := m.Instance("party")
	if instance.State() != emoji.StateLoading {
		t.Errorf("state = %v, want loading", instance.State())
	}
}

func TestCreateUnloadCyclesKeepNoObjects(t *testing.T) {
	now := int64(1000)
	m, loads := newTestManager(t, &now)
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 1000; i++ {
		obj := m.Create("party", nil)
		obj.Paint(dst, &emoji.Context{Now: now})
		obj.Unload()
	}
	if len(m.instances) != 1 {
		t.Errorf("instances = %d, want 1", len(m.instances))
	}
	instance, _ := m.Instance("party")
	if instance.Usage() != 0 || instance.State() != emoji.StateLoading {
		t.Errorf("usage=%d state=%v after unloading every object", instance.Usage(), instance.State())
	}
	if *loads != 1000 {
		t.Errorf("loads = %d, want one per create/unload cycle", *loads)
	}
	if m.NextRepaint() != 0 {
		t.Error("no repaint should stay pending")
	}
}

func TestSetColored(t *testing.T) {
	now := int64(1000)
	m, _ := newTestManager(t, &now)
	m.SetColored("party")
	instance, ok := m.Instance("party")
	if !ok || !instance.Colored() {
		t.Error("SetColored should create and mark the instance")
	}
}

func TestClear(t *testing.T) {
	now := int64(1000)
	m, _ := newTestManager(t, &now)
	obj := m.Create("party", nil)
	obj.Paint(image.NewRGBA(image.Rect(0, 0, 4, 4)), &emoji.Context{Now: now})
	obj.Paint(image.NewRGBA(image.Rect(0, 0, 4, 4)), &emoji.Context{Now: now})
	other := m.Create("party", nil)
	other.Paint(image.NewRGBA(image.Rect(0, 0, 4, 4)), &emoji.Context{Now: now})
	instance, _ := m.Instance("party")
	if instance.Usage() != 2 {
		t.Fatalf("usage = %d, want 2", instance.Usage())
	}

	m.Clear()
	if _, ok := m.Instance("party"); ok {
		t.Error("Clear should forget instances")
	}
	if instance.Usage() != 0 || instance.State() != emoji.StateLoading {
		t.Errorf("usage=%d state=%v after Clear", instance.Usage(), instance.State())
	}
	if m.NextRepaint() != 0 || m.timer != nil {
		t.Error("Clear should cancel pending repaints")
	}
}

func TestTimerPostsRepaint(t *testing.T) {
	posted := make(chan func(), 1)
	loads := 0
	m := New(Options{
		LoaderFactory: func(entityData string, size int) emoji.Loader {
			return &instantLoader{t: t, entity: entityData, loads: &loads}
		},
		Dispatch: platform.DispatchFunc(func(callback func()) { posted <- callback }),
		Size:     4,
	})
	defer m.Clear()
	repaints := 0
	obj := m.Create("party", func() { repaints++ })
	obj.Ready()
	instance, _ := m.Instance("party")
	m.repaintLater(instance, emoji.RepaintRequest{When: m.now() + 5})

	select {
	case callback := <-posted:
		callback()
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	if repaints != 2 {
		t.Errorf("repaints = %d, want 2", repaints)
	}
	if m.NextRepaint() != 0 || m.timer != nil {
		t.Error("fired request should be consumed")
	}
}
