package testing

import (
	"testing"
	"time"

	"github.com/go-drift/emojicache/pkg/animation"
	"github.com/go-drift/emojicache/pkg/platform"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	if elapsed := clk.Now().Sub(start); elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_DrivesAnimationMillis(t *testing.T) {
	clk := NewFakeClock()
	prev := animation.SetClock(clk)
	defer animation.SetClock(prev)

	before := animation.Millis()
	clk.AdvanceMillis(40)
	if got := animation.Millis() - before; got != 40 {
		t.Errorf("Millis advanced by %d, want 40", got)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator(4, 10, 20)
	first, err := gen.RenderNext(nil, 4)
	if err != nil || first.Image == nil || first.Duration != 10 {
		t.Fatalf("first frame = %+v, %v", first, err)
	}
	if got := first.Image.RGBAAt(0, 0); got != FrameColor(0) {
		t.Errorf("first pixel = %v, want %v", got, FrameColor(0))
	}
	second, _ := gen.RenderNext(first.Image, 4)
	if !second.Last || second.Image != first.Image {
		t.Errorf("second frame should be last and reuse storage")
	}
	end, _ := gen.RenderNext(nil, 4)
	if end.Image != nil {
		t.Error("expected empty frame after the sequence")
	}
}

func TestSequenceGenerator_Fail(t *testing.T) {
	gen := NewSequenceGenerator(4, 10, 20)
	gen.FailAt = 1
	if _, err := gen.RenderNext(nil, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := gen.RenderNext(nil, 4); err != ErrGeneratorFailed {
		t.Errorf("err = %v, want ErrGeneratorFailed", err)
	}
}

func TestPump(t *testing.T) {
	async := NewManualAsync()
	loop := platform.NewLoop()
	steps := 0
	var step func()
	step = func() {
		steps++
		if steps < 3 {
			async.Go(func() { loop.Post(step) })
		}
	}
	async.Go(func() { loop.Post(step) })
	Pump(async, loop)
	if steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
}
