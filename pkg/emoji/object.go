package emoji

import (
	"golang.org/x/image/draw"
)

// CustomEmoji is a paintable inline emoji.
type CustomEmoji interface {
	Width() int
	EntityData() string
	Paint(dst draw.Image, ctx *Context)
	Unload()
	Ready() bool
	ReadyInDefaultState() bool
}

// Object is one consumer's handle on a shared Instance. It registers with
// the instance on first use and deregisters on Unload.
type Object struct {
	instance *Instance
	repaint  func()
	width    int
	using    bool
}

var _ CustomEmoji = (*Object)(nil)

// NewObject creates a consumer handle. repaint is called when the instance
// has something new to show.
func NewObject(instance *Instance, width int, repaint func()) *Object {
	return &Object{instance: instance, repaint: repaint, width: width}
}

func (o *Object) Width() int {
	return o.width
}

func (o *Object) EntityData() string {
	return o.instance.EntityData()
}

func (o *Object) use() {
	if !o.using {
		o.using = true
		o.instance.IncrementUsage(o)
	}
}

func (o *Object) Paint(dst draw.Image, ctx *Context) {
	o.use()
	o.instance.Paint(dst, ctx)
}

// Unload deregisters the object. It is safe to call more than once.
func (o *Object) Unload() {
	if o.using {
		o.using = false
		o.instance.DecrementUsage(o)
	}
}

func (o *Object) Ready() bool {
	o.use()
	return o.instance.Ready()
}

func (o *Object) ReadyInDefaultState() bool {
	o.use()
	return o.instance.ReadyInDefaultState()
}

// Repaint forwards a repaint request to the consumer.
func (o *Object) Repaint() {
	if o.repaint != nil {
		o.repaint()
	}
}
