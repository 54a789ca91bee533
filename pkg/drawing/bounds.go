package drawing

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Walk visits nodes depth first, passing the accumulated transform and the
// effective laser operation of each node. It stops as soon as fn returns
// false and reports whether the walk ran to completion.
func Walk(nodes []Node, ctm matrix.Matrix, fn func(n Node, ctm matrix.Matrix, op Operation) bool) bool {
	return walk(nodes, ctm, Inherit, fn)
}

func walk(nodes []Node, ctm matrix.Matrix, inherited Operation, fn func(Node, matrix.Matrix, Operation) bool) bool {
	for _, n := range nodes {
		op := inherited
		if own := OperationOf(n); own != Inherit {
			op = own
		}
		if !fn(n, ctm, op) {
			return false
		}
		g, ok := n.(*Group)
		if !ok {
			continue
		}
		m := ctm
		if g.HasTransform() {
			m = g.Transform.Mul(ctm)
		}
		if !walk(g.Children, m, op, fn) {
			return false
		}
	}
	return true
}

// OperationOf returns the operation set directly on n.
func OperationOf(n Node) Operation {
	switch n := n.(type) {
	case *Group:
		return n.Op
	case *Rect:
		return n.Op
	case *Polygon:
		return n.Op
	case *Path:
		return n.Op
	case *Circle:
		return n.Op
	}
	return Inherit
}

// Apply maps p through m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() Box {
	return Box{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether no point was added to the box.
func (b Box) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Add extends the box to include p.
func (b *Box) Add(p vec.Vec2) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// Within reports whether b lies inside outer grown by tol on every side.
// An empty box is within anything.
func (b Box) Within(outer Box, tol float64) bool {
	if b.IsEmpty() {
		return true
	}
	return b.MinX >= outer.MinX-tol && b.MinY >= outer.MinY-tol &&
		b.MaxX <= outer.MaxX+tol && b.MaxY <= outer.MaxY+tol
}

// Bounds returns the extent of the geometric nodes under ctm. Text and raw
// path data do not contribute.
func Bounds(nodes []Node, ctm matrix.Matrix) Box {
	box := EmptyBox()
	add := func(m matrix.Matrix, pts ...vec.Vec2) {
		for _, p := range pts {
			box.Add(Apply(m, p))
		}
	}
	Walk(nodes, ctm, func(n Node, m matrix.Matrix, _ Operation) bool {
		switch n := n.(type) {
		case *Rect:
			add(m, corners(n.X, n.Y, n.W, n.H)...)
		case *Image:
			add(m, corners(n.X, n.Y, n.W, n.H)...)
		case *Circle:
			add(m, corners(n.CX-n.R, n.CY-n.R, 2*n.R, 2*n.R)...)
		case *Polygon:
			add(m, n.Points...)
		}
		return true
	})
	return box
}

func corners(x, y, w, h float64) []vec.Vec2 {
	return []vec.Vec2{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}
