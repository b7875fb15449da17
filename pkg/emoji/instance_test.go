package emoji

import (
	"image"
	"testing"

	emojitest "github.com/go-drift/emojicache/pkg/testing"
)

type repaintRecorder struct {
	requests []RepaintRequest
}

func (r *repaintRecorder) later(_ *Instance, request RepaintRequest) {
	r.requests = append(r.requests, request)
}

func (r *repaintRecorder) last() RepaintRequest {
	if len(r.requests) == 0 {
		return RepaintRequest{When: -1}
	}
	return r.requests[len(r.requests)-1]
}

func bakedCached(t *testing.T, entity string, durations ...int64) *Cached {
	t.Helper()
	c := buildCache(4, durations...)
	c.Finish()
	return NewCached(entity, func() Loader { return &fakeLoader{entity: entity} }, c)
}

func TestInstanceStartsLoading(t *testing.T) {
	inst := NewInstance(NewLoading(&fakeLoader{entity: "e"}, Preview{}), nil)
	if inst.State() != StateLoading {
		t.Errorf("state = %v, want loading", inst.State())
	}
	if inst.EntityData() != "e" {
		t.Errorf("EntityData = %q", inst.EntityData())
	}
	if inst.Ready() {
		t.Error("Ready without a preview or consumers")
	}
}

func TestInstanceConsumerRemovedWhileLoading(t *testing.T) {
	loader := &fakeLoader{entity: "e"}
	rec := &repaintRecorder{}
	inst := NewInstance(NewLoading(loader, Preview{}), rec.later)
	obj := NewObject(inst, 8, nil)

	if obj.Ready() {
		t.Fatal("Ready before anything loaded")
	}
	obj.Ready()
	if loader.loads != 1 || inst.Usage() != 1 {
		t.Fatalf("loads=%d usage=%d, want 1 and 1", loader.loads, inst.Usage())
	}
	stale := loader.done

	obj.Unload()
	if inst.State() != StateLoading || inst.Usage() != 0 {
		t.Fatalf("state=%v usage=%d after unload", inst.State(), inst.Usage())
	}
	if loader.cancels != 1 {
		t.Errorf("cancels = %d, want 1", loader.cancels)
	}
	if rec.last() != (RepaintRequest{}) {
		t.Errorf("last request = %+v, want cancellation", rec.last())
	}

	stale(CachedResult(bakedCached(t, "e", 50)))
	if inst.State() != StateLoading {
		t.Errorf("late load result changed state to %v", inst.State())
	}

	obj.Ready()
	if loader.loads != 2 {
		t.Errorf("loads = %d after reuse, want 2", loader.loads)
	}
}

func TestInstanceUnloadAll(t *testing.T) {
	loader := &fakeLoader{entity: "e"}
	rec := &repaintRecorder{}
	inst := NewInstance(NewLoading(loader, Preview{}), rec.later)
	a := NewObject(inst, 8, nil)
	b := NewObject(inst, 8, nil)
	a.Ready()
	b.Ready()
	loader.deliver(CachedResult(bakedCached(t, "e", 50)))
	if inst.State() != StateCached || inst.Usage() != 2 {
		t.Fatalf("state=%v usage=%d, want cached with 2 objects", inst.State(), inst.Usage())
	}

	inst.UnloadAll()
	if inst.State() != StateLoading || inst.Usage() != 0 {
		t.Errorf("state=%v usage=%d after UnloadAll", inst.State(), inst.Usage())
	}
	if rec.last() != (RepaintRequest{}) {
		t.Errorf("last request = %+v, want cancellation", rec.last())
	}
	a.Unload()
	if inst.Usage() != 0 {
		t.Error("second unload should be a no-op")
	}
}

func TestInstanceCachingToCached(t *testing.T) {
	h := newRendererHarness(4, 50, 50, 50)
	loader := &fakeLoader{entity: "entity"}
	rec := &repaintRecorder{}
	inst := NewInstance(NewLoading(loader, Preview{}), rec.later)
	repaints := 0
	obj := NewObject(inst, 4, func() { repaints++ })
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	obj.Paint(dst, &Context{Now: 1000})
	loader.deliver(CachingResult(&Caching{Renderer: h.renderer, EntityData: "entity"}))
	if inst.State() != StateCaching {
		t.Fatalf("state = %v, want caching", inst.State())
	}

	h.pump()
	if repaints == 0 {
		t.Error("first decoded frame should request a repaint")
	}

	obj.Paint(dst, &Context{Now: 1000})
	if inst.State() != StateCached {
		t.Fatalf("state = %v, want cached", inst.State())
	}
	if got := rec.last(); got.When != 1050 || got.Duration != 50 {
		t.Errorf("repaint request = %+v, want When 1050 Duration 50", got)
	}
	assertPixel(t, dst, 1, 1, emojitest.FrameColor(0))

	obj.Paint(dst, &Context{Now: 1050})
	assertPixel(t, dst, 1, 1, emojitest.FrameColor(1))

	obj.Unload()
	if inst.State() != StateLoading {
		t.Fatalf("state = %v after unload, want loading", inst.State())
	}
	preview := inst.ImagePreview()
	if !preview.IsExactImage() {
		t.Fatal("unloaded instance should keep the first frame as preview")
	}
	assertFrameColor(t, Frame{Image: preview.Image()}, emojitest.FrameColor(0))
	if len(h.loaders) != 1 {
		t.Errorf("unload created %d loaders, want 1", len(h.loaders))
	}
}

func TestInstanceCachedResultRepaintsConsumers(t *testing.T) {
	loader := &fakeLoader{entity: "e"}
	inst := NewInstance(NewLoading(loader, Preview{}), nil)
	repaints := 0
	obj := NewObject(inst, 4, func() { repaints++ })

	obj.Ready()
	loader.deliver(CachedResult(bakedCached(t, "e", 50, 50)))
	if inst.State() != StateCached || repaints != 1 {
		t.Errorf("state=%v repaints=%d", inst.State(), repaints)
	}
	if !obj.Ready() || !obj.ReadyInDefaultState() {
		t.Error("cached instance should be ready in default state")
	}
}

func TestInstanceUnloadWhileCachingCancelsDecode(t *testing.T) {
	h := newRendererHarness(4, 50, 50, 50)
	loader := &fakeLoader{entity: "entity", preview: ImagePreview(solid(4, emojitest.FrameColor(9)), false)}
	rec := &repaintRecorder{}
	inst := NewInstance(NewLoading(loader, Preview{}), rec.later)
	obj := NewObject(inst, 4, nil)

	obj.Ready()
	loader.deliver(CachingResult(&Caching{Renderer: h.renderer, EntityData: "entity"}))
	if !inst.HasImagePreview() {
		t.Fatal("caching state should inherit the loader preview")
	}

	obj.Unload()
	if inst.State() != StateLoading {
		t.Fatalf("state = %v, want loading", inst.State())
	}
	h.pump()
	if h.renderer.cache.Frames() != 0 {
		t.Error("cancelled renderer kept decoding")
	}
	if !inst.HasImagePreview() {
		t.Error("preview lost on unload")
	}
	if rec.last() != (RepaintRequest{}) {
		t.Errorf("last request = %+v, want cancellation", rec.last())
	}
}

func TestInstanceUpdatePreview(t *testing.T) {
	path := &Path{}
	path.MoveTo(0, 0)
	path.LineTo(4, 0)
	path.LineTo(4, 4)
	path.Close()
	inst := NewInstance(NewLoading(&fakeLoader{entity: "e"}, PathPreview(path, 1)), nil)
	if inst.HasImagePreview() {
		t.Fatal("path preview is not an image")
	}
	inst.UpdatePreview(ImagePreview(solid(4, emojitest.FrameColor(2)), false))
	if !inst.HasImagePreview() || !inst.Ready() {
		t.Error("image preview should make the instance ready")
	}
	if inst.ReadyInDefaultState() != true {
		t.Error("image preview counts as ready in default state")
	}
}

func TestInstanceSetColored(t *testing.T) {
	loader := &fakeLoader{entity: "e"}
	rec := &repaintRecorder{}
	inst := NewInstance(NewLoading(loader, Preview{}), rec.later)
	obj := NewObject(inst, 4, nil)
	obj.Ready()
	loader.deliver(CachedResult(bakedCached(t, "e", 50)))

	inst.SetColored()
	if !inst.Colored() || rec.last().When <= 0 {
		t.Fatalf("colored=%v request=%+v", inst.Colored(), rec.last())
	}
	requests := len(rec.requests)
	inst.SetColored()
	if len(rec.requests) != requests {
		t.Error("second SetColored should be a no-op")
	}

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	obj.Paint(dst, &Context{Now: 1000, TextColor: emojitest.FrameColor(5)})
	assertPixel(t, dst, 2, 2, emojitest.FrameColor(5))
}

func TestStateKindString(t *testing.T) {
	if StateCaching.String() != "caching" || StateKind(9).String() != "StateKind(9)" {
		t.Errorf("unexpected names %q %q", StateCaching, StateKind(9))
	}
}
