package dovetail

import (
	"encoding/json"

	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/errors"
)

// Layout is the pin plan for both vertical edges of a card.
type Layout struct {
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Blind   float64   `json:"blind"`
	Depth   float64   `json:"depth"`
	Small   float64   `json:"small"`
	Large   float64   `json:"large"`
	Spacing float64   `json:"spacing"`
	Centers []float64 `json:"centers"`
	Left    []Pin     `json:"left"`
	Right   []Pin     `json:"right"`
}

// Compute builds the edge plan for the given card and dovetail settings.
func Compute(card config.Card, d config.Dovetail) (Layout, error) {
	centers, err := PinCenters(card.Height, d.NeckHeight, d.Count)
	if err != nil {
		return Layout{}, err
	}

	l := Layout{
		Width:   card.Width,
		Height:  card.Height,
		Blind:   d.BlindThickness(),
		Depth:   d.Depth,
		Small:   d.NeckHeight,
		Large:   LargeHeight(d.NeckHeight, d.Depth, d.Angle),
		Spacing: centers[1] - centers[0],
		Centers: centers,
		Left:    make([]Pin, len(centers)),
		Right:   make([]Pin, len(centers)),
	}

	for i, y := range centers {
		l.Right[i] = PinOutline(card.Width-l.Blind, y, Left, l.Small, l.Large, l.Depth)
		l.Left[i] = PinOutline(l.Blind, y, Right, l.Small, l.Large, l.Depth)
	}
	return l, nil
}

// Pins returns the right-edge and left-edge pins interleaved per center,
// in the order they are drawn.
func (l Layout) Pins() []Pin {
	pins := make([]Pin, 0, 2*len(l.Centers))
	for i := range l.Centers {
		pins = append(pins, l.Right[i], l.Left[i])
	}
	return pins
}

// MarshalIndent encodes the plan as indented JSON.
func (l Layout) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode dovetail layout")
	}
	return append(data, '\n'), nil
}
