package emoji

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

type pathVerb uint8

const (
	verbMove pathVerb = iota
	verbLine
	verbQuad
	verbCube
	verbClose
)

type pathOp struct {
	verb pathVerb
	pts  [6]float32
}

// Path is a recorded vector outline used by path previews.
// The zero value is an empty path.
type Path struct {
	ops []pathOp
}

func (p *Path) MoveTo(x, y float32) {
	p.ops = append(p.ops, pathOp{verb: verbMove, pts: [6]float32{x, y}})
}

func (p *Path) LineTo(x, y float32) {
	p.ops = append(p.ops, pathOp{verb: verbLine, pts: [6]float32{x, y}})
}

func (p *Path) QuadTo(bx, by, cx, cy float32) {
	p.ops = append(p.ops, pathOp{verb: verbQuad, pts: [6]float32{bx, by, cx, cy}})
}

func (p *Path) CubeTo(bx, by, cx, cy, dx, dy float32) {
	p.ops = append(p.ops, pathOp{verb: verbCube, pts: [6]float32{bx, by, cx, cy, dx, dy}})
}

func (p *Path) Close() {
	p.ops = append(p.ops, pathOp{verb: verbClose})
}

// Empty reports whether the path has no drawing operations.
func (p *Path) Empty() bool {
	return p == nil || len(p.ops) == 0
}

func (op pathOp) points() int {
	switch op.verb {
	case verbMove, verbLine:
		return 1
	case verbQuad:
		return 2
	case verbCube:
		return 3
	}
	return 0
}

func (p *Path) transformedBounds(t func(x, y float32) (float32, float32)) image.Rectangle {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, op := range p.ops {
		for i := 0; i < op.points(); i++ {
			x, y := t(op.pts[2*i], op.pts[2*i+1])
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(float64(minX))),
		int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))),
		int(math.Ceil(float64(maxY))),
	)
}

func (p *Path) replay(r *vector.Rasterizer, t func(x, y float32) (float32, float32)) {
	for _, op := range p.ops {
		switch op.verb {
		case verbMove:
			x, y := t(op.pts[0], op.pts[1])
			r.MoveTo(x, y)
		case verbLine:
			x, y := t(op.pts[0], op.pts[1])
			r.LineTo(x, y)
		case verbQuad:
			bx, by := t(op.pts[0], op.pts[1])
			cx, cy := t(op.pts[2], op.pts[3])
			r.QuadTo(bx, by, cx, cy)
		case verbCube:
			bx, by := t(op.pts[0], op.pts[1])
			cx, cy := t(op.pts[2], op.pts[3])
			dx, dy := t(op.pts[4], op.pts[5])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		case verbClose:
			r.ClosePath()
		}
	}
}
