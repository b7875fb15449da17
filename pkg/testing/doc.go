// Package testing provides deterministic fakes for testing code built on
// emojicache.
//
// The emoji pipeline crosses threads in exactly one place: frame decodes run
// on a [platform.Async] and post back through a [platform.Dispatcher]. Tests
// replace both with [ManualAsync] and a [platform.Loop] and step them with
// [Pump]:
//
//	async := emojitest.NewManualAsync()
//	loop := platform.NewLoop()
//	r := emoji.NewRenderer(emoji.RendererDescriptor{
//	    Generator: func() (frames.Generator, error) {
//	        return emojitest.NewSequenceGenerator(8, 50, 50, 50), nil
//	    },
//	    Loader:   newLoader,
//	    Size:     8,
//	    Dispatch: loop,
//	    Async:    async,
//	})
//	emojitest.Pump(async, loop)
//
// [FakeClock] drives [animation.Millis] through animation.SetClock.
package testing
