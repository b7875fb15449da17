package emoji

import (
	"image"
	"image/color"
	"math"
)

// Context describes a single paint of an emoji.
type Context struct {
	// TextColor tints colorized emoji and path previews.
	TextColor color.Color
	// Size is the glyph box, required only when Scaled is set.
	Size image.Point
	// Now is the current time in monotonic milliseconds. Zero while paused.
	Now int64
	// Scale is the entrance/exit progress used when Scaled is set.
	Scale float64
	// Position is the top-left corner of the glyph in the target image.
	Position image.Point
	Paused   bool
	Scaled   bool

	// Internal flags are set by wrappers and instances while painting.
	Internal InternalFlags
}

// InternalFlags are toggled on a Context during a paint call.
type InternalFlags struct {
	// Colorized composites the text color through the frame alpha.
	Colorized                  bool
	ForceFirstFrame            bool
	ForceLastFrame             bool
	OverrideFirstWithLastFrame bool
}

func (c *Context) textColor() color.Color {
	if c.TextColor == nil {
		return color.Black
	}
	return c.TextColor
}

// PaintFrameResult reports what a paint call did.
type PaintFrameResult struct {
	Painted bool
	// Next is when the shown frame ends, or zero if no repaint is needed.
	Next int64
	// Duration is how long the shown frame stays on screen.
	Duration int64
}

// RepaintRequest asks the scheduler to repaint an Instance at When.
// The zero value cancels pending requests.
type RepaintRequest struct {
	When     int64
	Duration int64
}

// AdjustCustomEmojiSize returns the custom emoji edge for a text emoji size.
func AdjustCustomEmojiSize(emojiSize int) int {
	return int(math.Round(float64(emojiSize) * 1.12))
}

// PreviewColorFromTextColor returns the faint fill used for path previews.
func PreviewColorFromTextColor(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8((int(n.A) + 1) / 8)
	return n
}
