package emoji

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-drift/emojicache/pkg/errors"
	"github.com/go-drift/emojicache/pkg/frames"
	"github.com/go-drift/emojicache/pkg/platform"
	emojitest "github.com/go-drift/emojicache/pkg/testing"
)

func solid(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p+0], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// buildCache adds one frame per duration, colored with emojitest.FrameColor.
func buildCache(size int, durations ...int64) *Cache {
	c := NewCache(size)
	for i, d := range durations {
		c.Add(d, solid(size, emojitest.FrameColor(i)))
	}
	return c
}

func assertFrameColor(t *testing.T, f Frame, want color.RGBA) {
	t.Helper()
	sub := f.SubImage()
	b := sub.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got := sub.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func assertPixel(t *testing.T, dst *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	if got := dst.RGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

// captureErrors routes reported errors into the returned slice for the
// duration of the test.
func captureErrors(t *testing.T) *[]*errors.EmojiError {
	t.Helper()
	var reported []*errors.EmojiError
	errors.SetHandler(&recordingHandler{errors: &reported})
	t.Cleanup(func() { errors.SetHandler(nil) })
	return &reported
}

type recordingHandler struct {
	errors *[]*errors.EmojiError
}

func (h *recordingHandler) HandleError(err *errors.EmojiError) {
	*h.errors = append(*h.errors, err)
}

func (h *recordingHandler) HandlePanic(*errors.PanicError) {}

// fakeLoader records load requests and lets the test deliver results.
type fakeLoader struct {
	entity  string
	preview Preview
	loads   int
	cancels int
	done    func(LoadResult)
}

func (l *fakeLoader) EntityData() string { return l.entity }
func (l *fakeLoader) Loading() bool      { return l.done != nil }
func (l *fakeLoader) Preview() Preview   { return l.preview }

func (l *fakeLoader) Load(done func(LoadResult)) {
	l.loads++
	l.done = done
}

func (l *fakeLoader) Cancel() {
	l.cancels++
	l.done = nil
}

func (l *fakeLoader) deliver(result LoadResult) {
	done := l.done
	l.done = nil
	done(result)
}

// rendererHarness runs a Renderer against a manual task queue and loop.
type rendererHarness struct {
	async    *emojitest.ManualAsync
	loop     *platform.Loop
	gen      *emojitest.SequenceGenerator
	renderer *Renderer
	blobs    [][]byte
	loaders  []*fakeLoader
}

func newRendererHarness(size int, durations ...int64) *rendererHarness {
	h := &rendererHarness{
		async: emojitest.NewManualAsync(),
		loop:  platform.NewLoop(),
		gen:   emojitest.NewSequenceGenerator(size, durations...),
	}
	h.renderer = NewRenderer(RendererDescriptor{
		Generator: func() (frames.Generator, error) { return h.gen, nil },
		Put:       func(blob []byte) { h.blobs = append(h.blobs, blob) },
		Loader: func() Loader {
			l := &fakeLoader{entity: "entity"}
			h.loaders = append(h.loaders, l)
			return l
		},
		Size:       size,
		EntityData: "entity",
		Dispatch:   h.loop,
		Async:      h.async,
	})
	return h
}

func (h *rendererHarness) pump() {
	emojitest.Pump(h.async, h.loop)
}
