package export

import (
	"math"
	"os"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/errors"
)

// DXF layer names. Laser software maps layers to power settings.
const (
	LayerCut  = "CUT"
	LayerEtch = "ETCH"
)

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerCut, color.Red},
	{LayerEtch, color.Blue},
}

// DXF converts the geometry of doc to a DXF drawing. Cut nodes go on the CUT
// layer and everything else on ETCH. The y axis is flipped so the card keeps
// its orientation in DXF's y-up space.
//
// DXF has no clipping, so pin tips that flare past the card edge are kept
// as drawn. Text and images are dropped, and raw path data is not converted:
// skipped reports how many paths were left out.
func DXF(doc *drawing.Document) (data []byte, skipped int, err error) {
	dw := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := dw.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "dxf layer %s", l.name)
		}
	}

	flip := func(p vec.Vec2) vec.Vec2 { return vec.Vec2{X: p.X, Y: doc.Height - p.Y} }

	line := func(a, b vec.Vec2) error {
		_, err := dw.Line(a.X, a.Y, 0, b.X, b.Y, 0)
		return err
	}
	closed := func(pts []vec.Vec2) error {
		for i, p := range pts {
			if err := line(p, pts[(i+1)%len(pts)]); err != nil {
				return err
			}
		}
		return nil
	}

	arc := func(c vec.Vec2, r, start, end float64) error {
		_, err := dw.Arc(c.X, c.Y, 0, r, start, end)
		return err
	}

	// rect assumes m is a translate and uniform scale, which is all the
	// assembler produces.
	rect := func(n *drawing.Rect, m matrix.Matrix) error {
		a := flip(drawing.Apply(m, vec.Vec2{X: n.X, Y: n.Y}))
		b := flip(drawing.Apply(m, vec.Vec2{X: n.X + n.W, Y: n.Y + n.H}))
		x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
		y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		r := math.Min(n.RX*scaleOf(m), math.Min(x1-x0, y1-y0)/2)
		if r <= 0 {
			return closed([]vec.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}})
		}

		edges := [][2]vec.Vec2{
			{{X: x0 + r, Y: y0}, {X: x1 - r, Y: y0}},
			{{X: x1, Y: y0 + r}, {X: x1, Y: y1 - r}},
			{{X: x1 - r, Y: y1}, {X: x0 + r, Y: y1}},
			{{X: x0, Y: y1 - r}, {X: x0, Y: y0 + r}},
		}
		for _, e := range edges {
			if err := line(e[0], e[1]); err != nil {
				return err
			}
		}

		// Arcs run counter-clockwise, angles in degrees.
		corners := []struct {
			c          vec.Vec2
			start, end float64
		}{
			{vec.Vec2{X: x1 - r, Y: y0 + r}, 270, 360},
			{vec.Vec2{X: x1 - r, Y: y1 - r}, 0, 90},
			{vec.Vec2{X: x0 + r, Y: y1 - r}, 90, 180},
			{vec.Vec2{X: x0 + r, Y: y0 + r}, 180, 270},
		}
		for _, k := range corners {
			if err := arc(k.c, r, k.start, k.end); err != nil {
				return err
			}
		}
		return nil
	}

	var walkErr error
	drawing.Walk(doc.Root, matrix.Identity, func(n drawing.Node, m matrix.Matrix, op drawing.Operation) bool {
		layer := LayerEtch
		if op == drawing.Cut {
			layer = LayerCut
		}

		switch n := n.(type) {
		case *drawing.Rect:
			walkErr = dw.ChangeLayer(layer)
			if walkErr == nil {
				walkErr = rect(n, m)
			}
		case *drawing.Polygon:
			if len(n.Points) < 2 {
				return true
			}
			walkErr = dw.ChangeLayer(layer)
			if walkErr == nil {
				pts := make([]vec.Vec2, len(n.Points))
				for i, p := range n.Points {
					pts[i] = flip(drawing.Apply(m, p))
				}
				walkErr = closed(pts)
			}
		case *drawing.Circle:
			walkErr = dw.ChangeLayer(layer)
			if walkErr == nil {
				c := flip(drawing.Apply(m, vec.Vec2{X: n.CX, Y: n.CY}))
				_, walkErr = dw.Circle(c.X, c.Y, 0, n.R*scaleOf(m))
			}
		case *drawing.Path:
			skipped++
		}
		return walkErr == nil
	})
	if walkErr != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInternal, walkErr, "build dxf")
	}

	data, err = saveDXF(dw.SaveAs)
	if err != nil {
		return nil, 0, err
	}
	return data, skipped, nil
}

// scaleOf returns the length scale factor of m.
func scaleOf(m matrix.Matrix) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

// saveDXF runs save against a scratch file and returns what it wrote.
func saveDXF(save func(name string) error) ([]byte, error) {
	f, err := os.CreateTemp("", "lasercard-*.dxf")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create dxf scratch file")
	}
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	if err := save(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "write dxf")
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read dxf")
	}
	return data, nil
}
