package emoji

import (
	"errors"
	"testing"

	emojitest "github.com/go-drift/emojicache/pkg/testing"
)

func TestBake(t *testing.T) {
	gen := emojitest.NewSequenceGenerator(4, 40, 50, 60)
	gen.KnownCount = true
	c, err := Bake(gen, 4)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if !c.Finished() || c.Frames() != 3 {
		t.Fatalf("finished=%v frames=%d", c.Finished(), c.Frames())
	}
	for i, want := range []int64{40, 50, 60} {
		if c.Duration(i) != want {
			t.Errorf("Duration(%d) = %d, want %d", i, c.Duration(i), want)
		}
		assertFrameColor(t, c.Frame(i), emojitest.FrameColor(i))
	}
}

func TestBakeStopsAtZeroDuration(t *testing.T) {
	c, err := Bake(emojitest.NewSequenceGenerator(4, 40, 0, 60), 4)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if c.Frames() != 2 {
		t.Errorf("frames = %d, want 2", c.Frames())
	}
}

func TestBakeStopsAtMaxFrames(t *testing.T) {
	durations := make([]int64, MaxFrames+20)
	for i := range durations {
		durations[i] = 10
	}
	c, err := Bake(emojitest.NewSequenceGenerator(2, durations...), 2)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if c.Frames() != MaxFrames-1 {
		t.Errorf("frames = %d, want %d", c.Frames(), MaxFrames-1)
	}
	blob, err := c.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := FromSerialized(blob, 2); err != nil {
		t.Errorf("longest baked cache does not load: %v", err)
	}
}

func TestBakeErrors(t *testing.T) {
	if _, err := Bake(emojitest.NewSequenceGenerator(4), 4); !errors.Is(err, ErrNoFrames) {
		t.Errorf("empty generator: err = %v, want ErrNoFrames", err)
	}
	gen := emojitest.NewSequenceGenerator(4, 40, 40)
	gen.FailAt = 1
	if _, err := Bake(gen, 4); !errors.Is(err, emojitest.ErrGeneratorFailed) {
		t.Errorf("failing generator: err = %v", err)
	}
}
