package emoji

import (
	"image"

	"golang.org/x/image/draw"
)

// ShiftedEmoji paints the wrapped emoji offset by a fixed shift.
type ShiftedEmoji struct {
	wrapped CustomEmoji
	shift   image.Point
}

func NewShiftedEmoji(wrapped CustomEmoji, shift image.Point) *ShiftedEmoji {
	return &ShiftedEmoji{wrapped: wrapped, shift: shift}
}

func (e *ShiftedEmoji) Width() int                { return e.wrapped.Width() }
func (e *ShiftedEmoji) EntityData() string        { return e.wrapped.EntityData() }
func (e *ShiftedEmoji) Unload()                   { e.wrapped.Unload() }
func (e *ShiftedEmoji) Ready() bool               { return e.wrapped.Ready() }
func (e *ShiftedEmoji) ReadyInDefaultState() bool { return e.wrapped.ReadyInDefaultState() }

func (e *ShiftedEmoji) Paint(dst draw.Image, ctx *Context) {
	shifted := *ctx
	shifted.Position = shifted.Position.Add(e.shift)
	e.wrapped.Paint(dst, &shifted)
}

// FirstFrameEmoji always paints the first frame of the wrapped emoji.
type FirstFrameEmoji struct {
	wrapped CustomEmoji
}

func NewFirstFrameEmoji(wrapped CustomEmoji) *FirstFrameEmoji {
	return &FirstFrameEmoji{wrapped: wrapped}
}

func (e *FirstFrameEmoji) Width() int                { return e.wrapped.Width() }
func (e *FirstFrameEmoji) EntityData() string        { return e.wrapped.EntityData() }
func (e *FirstFrameEmoji) Unload()                   { e.wrapped.Unload() }
func (e *FirstFrameEmoji) Ready() bool               { return e.wrapped.Ready() }
func (e *FirstFrameEmoji) ReadyInDefaultState() bool { return e.wrapped.ReadyInDefaultState() }

func (e *FirstFrameEmoji) Paint(dst draw.Image, ctx *Context) {
	was := ctx.Internal.ForceFirstFrame
	ctx.Internal.ForceFirstFrame = true
	e.wrapped.Paint(dst, ctx)
	ctx.Internal.ForceFirstFrame = was
}

// LimitedLoopsEmoji plays the wrapped emoji a limited number of times and
// then freezes on the first frame, or on the last one with stopOnLast.
type LimitedLoopsEmoji struct {
	wrapped    CustomEmoji
	limit      int
	played     int
	inLoop     bool
	stopOnLast bool
}

func NewLimitedLoopsEmoji(wrapped CustomEmoji, limit int, stopOnLast bool) *LimitedLoopsEmoji {
	return &LimitedLoopsEmoji{wrapped: wrapped, limit: limit, stopOnLast: stopOnLast}
}

func (e *LimitedLoopsEmoji) Width() int                { return e.wrapped.Width() }
func (e *LimitedLoopsEmoji) EntityData() string        { return e.wrapped.EntityData() }
func (e *LimitedLoopsEmoji) Ready() bool               { return e.wrapped.Ready() }
func (e *LimitedLoopsEmoji) ReadyInDefaultState() bool { return e.wrapped.ReadyInDefaultState() }

// Played returns the number of completed loops.
func (e *LimitedLoopsEmoji) Played() int {
	return e.played
}

func (e *LimitedLoopsEmoji) Paint(dst draw.Image, ctx *Context) {
	if e.played < e.limit {
		if e.wrapped.ReadyInDefaultState() {
			if e.inLoop {
				e.inLoop = false
				e.played++
			}
		} else if e.wrapped.Ready() {
			e.inLoop = true
		}
	}
	switch {
	case e.played == e.limit:
		wasFirst, wasLast := ctx.Internal.ForceFirstFrame, ctx.Internal.ForceLastFrame
		if e.stopOnLast {
			ctx.Internal.ForceLastFrame = true
		} else {
			ctx.Internal.ForceFirstFrame = true
		}
		e.wrapped.Paint(dst, ctx)
		ctx.Internal.ForceFirstFrame, ctx.Internal.ForceLastFrame = wasFirst, wasLast
	case e.played+1 == e.limit && e.inLoop && e.stopOnLast:
		was := ctx.Internal.OverrideFirstWithLastFrame
		ctx.Internal.OverrideFirstWithLastFrame = true
		e.wrapped.Paint(dst, ctx)
		ctx.Internal.OverrideFirstWithLastFrame = was
	default:
		e.wrapped.Paint(dst, ctx)
	}
}

// Unload unloads the wrapped emoji and restarts the loop count.
func (e *LimitedLoopsEmoji) Unload() {
	e.wrapped.Unload()
	e.inLoop = false
	e.played = 0
}
