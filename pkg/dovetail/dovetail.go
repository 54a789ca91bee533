package dovetail

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// Direction is the way a pin's wide tip points along the x axis.
type Direction int

const (
	// Right points the tip toward +x, used for pins cut from the left edge.
	Right Direction = 1
	// Left points the tip toward -x, used for pins cut from the right edge.
	Left Direction = -1
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Pin is a closed four-point dovetail outline. Points 0 and 3 lie on the
// joint line; points 1 and 2 form the flared tip.
type Pin [4]vec.Vec2

// LargeHeight returns the tip height of a pin with the given neck height,
// depth and taper half-angle in degrees.
func LargeHeight(small, depth, angleDeg float64) float64 {
	return small + 2*depth*math.Tan(angleDeg*math.Pi/180)
}

// PinOutline returns the trapezoid anchored at (x, y).
func PinOutline(x, y float64, dir Direction, small, large, depth float64) Pin {
	tip := x + float64(dir)*depth
	return Pin{
		{X: x, Y: y - small/2},
		{X: tip, Y: y - large/2},
		{X: tip, Y: y + large/2},
		{X: x, Y: y + small/2},
	}
}

// PinCenters returns count evenly spaced pin centers along an edge of the
// given height. The first center is small/2 and the last is height-small/2.
func PinCenters(height, small float64, count int) ([]float64, error) {
	if count < 2 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dovetail count must be >= 2, got %d", count)
	}
	spacing := (height - small) / float64(count-1)
	centers := make([]float64, count)
	for i := range centers {
		centers[i] = small/2 + float64(i)*spacing
	}
	return centers, nil
}

// Points returns the outline as a slice, for callers that draw polygons.
func (p Pin) Points() []vec.Vec2 {
	return p[:]
}

// Reflect mirrors the pin about the vertical line x = width/2.
func (p Pin) Reflect(width float64) Pin {
	var out Pin
	for i, v := range p {
		out[i] = vec.Vec2{X: width - v.X, Y: v.Y}
	}
	return out
}

// Bounds returns the axis-aligned extent of the pin.
func (p Pin) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, v := range p {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	return minX, minY, maxX, maxY
}
