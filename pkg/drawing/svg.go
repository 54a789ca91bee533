package drawing

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"seehuhn.de/go/geom/matrix"
)

// DefaultDecimals is the number of fractional digits written for coordinates.
const DefaultDecimals = 4

// Unit is the measurement unit of the document's width and height.
const Unit = "mm"

const smallCapsStyle = "font-feature-settings: 'smcp'"

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	decimals int
	title    string
}

// WithDecimals sets the coordinate precision.
func WithDecimals(n int) SVGOption { return func(r *svgRenderer) { r.decimals = n } }

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG serializes doc. The output depends only on doc and opts.
func RenderSVG(doc *Document, opts ...SVGOption) []byte {
	r := svgRenderer{decimals: DefaultDecimals}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Decimals = r.decimals

	viewBox := fmt.Sprintf(`viewBox="0 0 %s %s"`, num(doc.Width), num(doc.Height))
	canvas.Startunit(doc.Width, doc.Height, Unit, viewBox)
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Style("text/css", stylesheet()...)

	if len(doc.Clips) > 0 {
		canvas.Def()
		for _, c := range doc.Clips {
			canvas.ClipPath(attr("id", c.ID))
			r.rect(canvas, &c.Shape)
			canvas.ClipEnd()
		}
		canvas.DefEnd()
	}

	r.nodes(canvas, doc.Root)
	canvas.End()
	return buf.Bytes()
}

func stylesheet() []string {
	return []string{
		fmt.Sprintf(".%s { %s }", Cut.Class(), Cut.Style().CSS()),
		fmt.Sprintf(".%s { %s }", Etch.Class(), Etch.Style().CSS()),
	}
}

func (r *svgRenderer) nodes(canvas *svg.SVG, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Group:
			r.group(canvas, n)
		case *Rect:
			r.rect(canvas, n)
		case *Polygon:
			xs := make([]float64, len(n.Points))
			ys := make([]float64, len(n.Points))
			for i, p := range n.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			canvas.Polygon(xs, ys, classAttrs(n.Op)...)
		case *Path:
			var attrs []string
			if n.ID != "" {
				attrs = append(attrs, attr("id", n.ID))
			}
			canvas.Path(escape(n.D), append(attrs, classAttrs(n.Op)...)...)
		case *Circle:
			canvas.Circle(n.CX, n.CY, n.R, classAttrs(n.Op)...)
		case *Text:
			r.text(canvas, n)
		case *Image:
			r.image(canvas, n)
		}
	}
}

func (r *svgRenderer) group(canvas *svg.SVG, g *Group) {
	var attrs []string
	if g.ID != "" {
		attrs = append(attrs, attr("id", g.ID))
	}
	if g.HasTransform() {
		attrs = append(attrs, attr("transform", TransformString(g.Transform)))
	}
	if g.Clip != "" {
		attrs = append(attrs, attr("clip-path", "url(#"+g.Clip+")"))
	}
	attrs = append(attrs, classAttrs(g.Op)...)

	canvas.Group(attrs...)
	r.nodes(canvas, g.Children)
	canvas.Gend()
}

func (r *svgRenderer) rect(canvas *svg.SVG, n *Rect) {
	if n.RX > 0 {
		canvas.Roundrect(n.X, n.Y, n.W, n.H, n.RX, n.RX, classAttrs(n.Op)...)
		return
	}
	canvas.Rect(n.X, n.Y, n.W, n.H, classAttrs(n.Op)...)
}

func (r *svgRenderer) text(canvas *svg.SVG, t *Text) {
	attrs := []string{
		attr("font-family", t.Family),
		attr("font-size", num(t.Size)),
	}
	if t.Anchor != "" {
		attrs = append(attrs, attr("text-anchor", t.Anchor))
	}
	if t.Fill != "" {
		attrs = append(attrs, attr("fill", t.Fill))
	}
	if t.SmallCaps {
		attrs = append(attrs, smallCapsStyle)
	}
	canvas.Text(t.X, t.Y, t.Content, attrs...)
}

// image writes whole-millimetre sizes directly; fractional sizes are drawn
// as a unit image scaled into place since <image> takes integer dimensions.
func (r *svgRenderer) image(canvas *svg.SVG, img *Image) {
	if img.W == math.Trunc(img.W) && img.H == math.Trunc(img.H) {
		canvas.Image(img.X, img.Y, int(img.W), int(img.H), img.Href)
		return
	}
	m := matrix.Matrix{img.W, 0, 0, img.H, img.X, img.Y}
	canvas.Group(attr("transform", TransformString(m)))
	canvas.Image(0, 0, 1, 1, img.Href, attr("preserveAspectRatio", "none"))
	canvas.Gend()
}

// TransformString renders m as an SVG transform list, preferring
// translate/scale over a raw matrix.
func TransformString(m matrix.Matrix) string {
	if m[1] != 0 || m[2] != 0 {
		return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
			num(m[0]), num(m[1]), num(m[2]), num(m[3]), num(m[4]), num(m[5]))
	}

	var parts []string
	if m[4] != 0 || m[5] != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s,%s)", num(m[4]), num(m[5])))
	}
	switch {
	case m[0] == 1 && m[3] == 1:
	case m[0] == m[3]:
		parts = append(parts, fmt.Sprintf("scale(%s)", num(m[0])))
	default:
		parts = append(parts, fmt.Sprintf("scale(%s,%s)", num(m[0]), num(m[3])))
	}
	return strings.Join(parts, " ")
}

func classAttrs(op Operation) []string {
	if c := op.Class(); c != "" {
		return []string{attr("class", c)}
	}
	return nil
}

func attr(name, value string) string {
	return name + `="` + escape(value) + `"`
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
