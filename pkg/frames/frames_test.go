package frames

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func animatedGIF(t *testing.T, colors []color.Color, delays []int) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent}
	pal = append(pal, colors...)
	g := &gif.GIF{Config: image.Config{Width: 8, Height: 8, ColorModel: pal}}
	for i, c := range colors {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), pal)
		idx := uint8(frame.Palette.Index(c))
		for p := range frame.Pix {
			frame.Pix[p] = idx
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delays[i])
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("gif.EncodeAll: %v", err)
	}
	return buf.Bytes()
}

func TestNewGenerator_Still(t *testing.T) {
	gen, err := NewGenerator(solidPNG(t, 4, 4, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, ok := gen.(*ImageGenerator); !ok {
		t.Fatalf("got %T, want *ImageGenerator", gen)
	}
	frame, err := gen.RenderNext(nil, 16)
	if err != nil {
		t.Fatalf("RenderNext: %v", err)
	}
	if frame.Image == nil || frame.Image.Rect.Dx() != 16 {
		t.Fatalf("unexpected frame image %v", frame.Image)
	}
	if frame.Duration != 0 || !frame.Last {
		t.Errorf("still frame duration=%d last=%v, want 0 true", frame.Duration, frame.Last)
	}
	if got := frame.Image.RGBAAt(8, 8); got.R != 255 || got.A != 255 {
		t.Errorf("center pixel = %v, want opaque red", got)
	}
}

func TestNewGenerator_Unsupported(t *testing.T) {
	_, err := NewGenerator([]byte("definitely not an image"))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestImageGenerator_KeepsAspectRatio(t *testing.T) {
	gen := NewImageGenerator(solidPNG(t, 20, 10, color.RGBA{0, 0, 255, 255}))
	frame, err := gen.RenderCurrent(nil, 20)
	if err != nil {
		t.Fatalf("RenderCurrent: %v", err)
	}
	if got := frame.Image.RGBAAt(10, 0); got.A != 0 {
		t.Errorf("top row should be transparent padding, got %v", got)
	}
	if got := frame.Image.RGBAAt(10, 10); got.A != 255 {
		t.Errorf("middle should be opaque, got %v", got)
	}
}

func TestImageGenerator_ReusesStorage(t *testing.T) {
	gen := NewImageGeneratorFromImage(image.NewUniform(color.White))
	storage := CreateStorage(8)
	frame, err := gen.RenderNext(storage, 8)
	if err != nil {
		t.Fatalf("RenderNext: %v", err)
	}
	if frame.Image != storage {
		t.Error("expected storage to be reused")
	}
}

func TestGIFGenerator_Sequence(t *testing.T) {
	data := animatedGIF(t,
		[]color.Color{color.RGBA{255, 0, 0, 255}, color.RGBA{0, 255, 0, 255}, color.RGBA{0, 0, 255, 255}},
		[]int{5, 0, 20},
	)
	gen, err := NewGenerator(data)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, ok := gen.(*GIFGenerator); !ok {
		t.Fatalf("got %T, want *GIFGenerator", gen)
	}
	if gen.Count() != 3 {
		t.Errorf("Count() = %d, want 3", gen.Count())
	}

	wantDurations := []int64{50, defaultGIFDelay, 200}
	var storage *image.RGBA
	for i, want := range wantDurations {
		frame, err := gen.RenderNext(storage, 8)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if frame.Image == nil {
			t.Fatalf("frame %d: nil image", i)
		}
		if frame.Duration != want {
			t.Errorf("frame %d duration = %d, want %d", i, frame.Duration, want)
		}
		if frame.Last != (i == 2) {
			t.Errorf("frame %d last = %v", i, frame.Last)
		}
		storage = frame.Image
	}

	frame, err := gen.RenderNext(storage, 8)
	if err != nil || frame.Image != nil {
		t.Errorf("after last frame got image=%v err=%v, want empty frame", frame.Image, err)
	}

	gen.JumpToStart()
	frame, _ = gen.RenderNext(nil, 8)
	if got := frame.Image.RGBAAt(4, 4); got.R != 255 || got.G != 0 {
		t.Errorf("after JumpToStart first pixel = %v, want red", got)
	}
}

func TestGoodStorage(t *testing.T) {
	if GoodStorage(nil, 4) {
		t.Error("nil storage should not be good")
	}
	if !GoodStorage(CreateStorage(4), 4) {
		t.Error("fresh storage should be good")
	}
	if GoodStorage(CreateStorage(4), 5) {
		t.Error("wrong size storage should not be good")
	}
}
