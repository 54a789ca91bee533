package drawing

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Node is an element of the drawing tree. The set of node types is closed.
type Node interface {
	node()
}

// Group collects child nodes under an optional transform, clip region and
// laser operation. Children without their own operation inherit Op.
type Group struct {
	ID        string
	Transform matrix.Matrix // zero value means no transform
	Clip      string        // ID of a ClipPath in the document defs
	Op        Operation
	Children  []Node
}

// Append adds children in drawing order.
func (g *Group) Append(nodes ...Node) {
	g.Children = append(g.Children, nodes...)
}

// HasTransform reports whether the group carries a non-identity transform.
func (g *Group) HasTransform() bool {
	return g.Transform != (matrix.Matrix{}) && g.Transform != matrix.Identity
}

// Rect is an axis-aligned rectangle, rounded when RX > 0.
type Rect struct {
	X, Y, W, H float64
	RX         float64
	Op         Operation
}

// Polygon is a closed straight-edged outline.
type Polygon struct {
	Points []vec.Vec2
	Op     Operation
}

// Path is raw SVG path data copied from an asset.
type Path struct {
	ID string
	D  string
	Op Operation
}

// Circle is a circle centered at (CX, CY).
type Circle struct {
	CX, CY, R float64
	Op        Operation
}

// Text is a single line of text positioned at its baseline anchor.
type Text struct {
	X, Y      float64
	Content   string
	Size      float64
	Family    string
	Fill      string
	Anchor    string // start, middle or end
	SmallCaps bool
}

// Image embeds a raster image referenced by Href (typically a data URI).
type Image struct {
	X, Y, W, H float64
	Href       string
}

func (*Group) node()   {}
func (*Rect) node()    {}
func (*Polygon) node() {}
func (*Path) node()    {}
func (*Circle) node()  {}
func (*Text) node()    {}
func (*Image) node()   {}

// ClipPath is a named clip region referenced by Group.Clip.
type ClipPath struct {
	ID    string
	Shape Rect
}

// Document is the root of a drawing in millimetres with its origin at the
// top-left corner.
type Document struct {
	Width  float64
	Height float64
	Clips  []ClipPath
	Root   []Node
}

// NewDocument returns an empty document of the given size.
func NewDocument(width, height float64) *Document {
	return &Document{Width: width, Height: height}
}

// AddClip registers a clip region and returns its ID.
func (d *Document) AddClip(c ClipPath) string {
	d.Clips = append(d.Clips, c)
	return c.ID
}

// Append adds top-level nodes in drawing order.
func (d *Document) Append(nodes ...Node) {
	d.Root = append(d.Root, nodes...)
}

// Find returns the first group with the given ID, searching depth first.
func (d *Document) Find(id string) *Group {
	var found *Group
	Walk(d.Root, matrix.Identity, func(n Node, _ matrix.Matrix, _ Operation) bool {
		if g, ok := n.(*Group); ok && g.ID == id {
			found = g
			return false
		}
		return true
	})
	return found
}
